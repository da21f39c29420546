// Package validation checks the login and product forms before anything is sent to the API.
package validation

import (
	"errors"
	"fmt"
	"math"
	"net/mail"
	"sort"
	"strconv"
	"strings"

	"github.com/dlclark/regexp2"

	"github.com/njpv/shop-admin/internal/models"
)

// Errors maps a form field to the reason it was rejected
type Errors map[string]string

func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f, e[f]))
	}
	return "invalid form: " + strings.Join(parts, "; ")
}

// Has reports whether field failed validation
func (e Errors) Has(field string) bool {
	_, ok := e[field]
	return ok
}

func (e Errors) orNil() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

// AsErrors extracts field errors from err, if it carries any
func AsErrors(err error) (Errors, bool) {
	var fe Errors
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

const (
	msgRequired = "campo obligatorio"
	msgEmail    = "correo electrónico no válido"
	msgPassword = "mínimo 8 caracteres con una minúscula, una mayúscula y un símbolo"
	msgNumber   = "debe ser un número"
	msgInteger  = "debe ser un número entero"
	msgNegative = "no puede ser negativo"
)

// passwordPolicy needs lookahead, which the standard regexp package does not support.
// ECMAScript mode keeps \W ASCII-only.
var passwordPolicy = regexp2.MustCompile(`^(?=.*[a-z])(?=.*[A-Z])(?=.*\W).{8,}$`, regexp2.ECMAScript)

// ValidEmail reports whether s is a bare RFC 5322 address (no display name)
func ValidEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	if err != nil {
		return false
	}
	return addr.Address == s
}

// ValidPassword reports whether s meets the password policy
func ValidPassword(s string) bool {
	ok, err := passwordPolicy.MatchString(s)
	return err == nil && ok
}

// Login validates submitted credentials
func Login(c models.Credentials) error {
	errs := Errors{}

	switch {
	case strings.TrimSpace(c.Email) == "":
		errs["email"] = msgRequired
	case !ValidEmail(c.Email):
		errs["email"] = msgEmail
	}

	switch {
	case c.Password == "":
		errs["password"] = msgRequired
	case !ValidPassword(c.Password):
		errs["password"] = msgPassword
	}

	return errs.orNil()
}

// ProductForm holds the raw values of the product dialog
type ProductForm struct {
	ID               string
	Codigo           string
	Nombre           string
	Descripcion      string
	Precio           string
	Imagen           string
	Categoria        string
	Cantidad         string
	EstadoInventario string
	Rating           string
}

// FormFromProduct fills the form with an existing record
func FormFromProduct(p models.Product) ProductForm {
	return ProductForm{
		ID:               strconv.FormatInt(p.ID, 10),
		Codigo:           p.Codigo,
		Nombre:           p.Nombre,
		Descripcion:      p.Descripcion,
		Precio:           strconv.FormatFloat(p.Precio, 'f', -1, 64),
		Imagen:           p.Imagen,
		Categoria:        p.Categoria,
		Cantidad:         strconv.Itoa(p.Cantidad),
		EstadoInventario: string(p.EstadoInventario),
		Rating:           strconv.FormatFloat(p.Rating, 'f', -1, 64),
	}
}

// Product validates the form and converts it into a record.
// id, codigo, nombre, descripcion, precio, categoria and cantidad are required.
func (f ProductForm) Product() (models.Product, error) {
	errs := Errors{}
	p := models.Product{
		Codigo:           strings.TrimSpace(f.Codigo),
		Nombre:           strings.TrimSpace(f.Nombre),
		Descripcion:      strings.TrimSpace(f.Descripcion),
		Imagen:           strings.TrimSpace(f.Imagen),
		Categoria:        strings.TrimSpace(f.Categoria),
		EstadoInventario: models.InventoryStatus(strings.TrimSpace(f.EstadoInventario)),
	}

	required := map[string]string{
		"codigo":      p.Codigo,
		"nombre":      p.Nombre,
		"descripcion": p.Descripcion,
		"categoria":   p.Categoria,
	}
	for field, v := range required {
		if v == "" {
			errs[field] = msgRequired
		}
	}

	if id, ok := parseInt(errs, "id", f.ID, true); ok {
		if id < 0 {
			errs["id"] = msgNegative
		} else {
			p.ID = id
		}
	}
	if precio, ok := parseFloat(errs, "precio", f.Precio, true); ok {
		p.Precio = precio
	}
	if cantidad, ok := parseInt(errs, "cantidad", f.Cantidad, true); ok {
		p.Cantidad = int(cantidad)
	}
	if rating, ok := parseFloat(errs, "rating", f.Rating, false); ok {
		p.Rating = rating
	}

	if err := errs.orNil(); err != nil {
		return models.Product{}, err
	}
	return p, nil
}

func parseInt(errs Errors, field, raw string, required bool) (int64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		if required {
			errs[field] = msgRequired
		}
		return 0, false
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		errs[field] = msgInteger
		return 0, false
	}
	return v, true
}

func parseFloat(errs Errors, field, raw string, required bool) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		if required {
			errs[field] = msgRequired
		}
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		errs[field] = msgNumber
		return 0, false
	}
	return v, true
}
