package backend

import (
	"compress/gzip"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/njpv/shop-admin/internal/models"
)

// csvColumns is the header ImportProductsCSV expects, in order
var csvColumns = []string{"id", "codigo", "nombre", "descripcion", "precio", "imagen", "categoria", "cantidad", "estadoInventario", "rating"}

// DefaultProducts is the catalog served when no seed file is configured
func DefaultProducts() []models.Product {
	return []models.Product{
		{ID: 1, Codigo: "f230fh0g3", Nombre: "Bamboo Watch", Descripcion: "Product Description", Precio: 65, Imagen: "bamboo-watch.jpg", Categoria: "Accessories", Cantidad: 24, EstadoInventario: models.InStock, Rating: 5},
		{ID: 2, Codigo: "nvklal433", Nombre: "Black Watch", Descripcion: "Product Description", Precio: 72, Imagen: "black-watch.jpg", Categoria: "Accessories", Cantidad: 61, EstadoInventario: models.InStock, Rating: 4},
		{ID: 3, Codigo: "zz21cz3c1", Nombre: "Blue Band", Descripcion: "Product Description", Precio: 79, Imagen: "blue-band.jpg", Categoria: "Fitness", Cantidad: 2, EstadoInventario: models.LowStock, Rating: 3},
		{ID: 4, Codigo: "244wgerg2", Nombre: "Blue T-Shirt", Descripcion: "Product Description", Precio: 29, Imagen: "blue-t-shirt.jpg", Categoria: "Clothing", Cantidad: 25, EstadoInventario: models.InStock, Rating: 5},
		{ID: 5, Codigo: "h456wer53", Nombre: "Bracelet", Descripcion: "Product Description", Precio: 15, Imagen: "bracelet.jpg", Categoria: "Accessories", Cantidad: 73, EstadoInventario: models.InStock, Rating: 4},
		{ID: 6, Codigo: "av2231fwg", Nombre: "Brown Purse", Descripcion: "Product Description", Precio: 120, Imagen: "brown-purse.jpg", Categoria: "Accessories", Cantidad: 0, EstadoInventario: models.OutOfStock, Rating: 4},
		{ID: 7, Codigo: "bib36pfvm", Nombre: "Chakra Bracelet", Descripcion: "Product Description", Precio: 32, Imagen: "chakra-bracelet.jpg", Categoria: "Accessories", Cantidad: 5, EstadoInventario: models.LowStock, Rating: 3},
		{ID: 8, Codigo: "mbvjkgip5", Nombre: "Galaxy Earrings", Descripcion: "Product Description", Precio: 34, Imagen: "galaxy-earrings.jpg", Categoria: "Accessories", Cantidad: 23, EstadoInventario: models.InStock, Rating: 5},
	}
}

// DefaultUsers is the user table served when no seed file is configured
func DefaultUsers() []models.User {
	return []models.User{
		{ID: 1, Email: "admin@tienda.test", Password: "Admin#2024", Nombre: "Administrador"},
	}
}

// LoadProductsFile imports a CSV seed from a local path or an http(s) URL.
// A ".gz" suffix means the file is gzipped.
func LoadProductsFile(ctx context.Context, source string) ([]models.Product, error) {
	var body io.ReadCloser
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		rc, err := download(ctx, source)
		if err != nil {
			return nil, err
		}
		body = rc
	} else {
		file, err := os.Open(source)
		if err != nil {
			return nil, fmt.Errorf("could not open CSV file: %w", err)
		}
		body = file
	}
	defer body.Close()

	var r io.Reader = body
	if strings.HasSuffix(source, ".gz") {
		gzReader, err := gzip.NewReader(body)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		defer gzReader.Close()
		r = gzReader
	}

	return ImportProductsCSV(r)
}

// download fetches a remote seed file
func download(ctx context.Context, url string) (io.ReadCloser, error) {
	client := &http.Client{Timeout: time.Minute}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download file: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	return resp.Body, nil
}

// ImportProductsCSV reads products from CSV with a header row matching csvColumns
func ImportProductsCSV(r io.Reader) ([]models.Product, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = len(csvColumns)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("CSV is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("could not read CSV header: %w", err)
	}
	for i, col := range csvColumns {
		if !strings.EqualFold(strings.TrimSpace(header[i]), col) {
			return nil, fmt.Errorf("column %d is %q, want %q", i+1, header[i], col)
		}
	}

	var products []models.Product
	for line := 2; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("could not read CSV: %w", err)
		}

		p, err := parseProductRow(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}
		products = append(products, p)
	}

	return products, nil
}

func parseProductRow(row []string) (models.Product, error) {
	id, err := strconv.ParseInt(row[0], 10, 64)
	if err != nil {
		return models.Product{}, fmt.Errorf("invalid id %q", row[0])
	}
	precio, err := strconv.ParseFloat(row[4], 64)
	if err != nil {
		return models.Product{}, fmt.Errorf("invalid precio %q", row[4])
	}
	cantidad, err := strconv.Atoi(row[7])
	if err != nil {
		return models.Product{}, fmt.Errorf("invalid cantidad %q", row[7])
	}

	var rating float64
	if row[9] != "" {
		if rating, err = strconv.ParseFloat(row[9], 64); err != nil {
			return models.Product{}, fmt.Errorf("invalid rating %q", row[9])
		}
	}

	return models.Product{
		ID:               id,
		Codigo:           row[1],
		Nombre:           row[2],
		Descripcion:      row[3],
		Precio:           precio,
		Imagen:           row[5],
		Categoria:        row[6],
		Cantidad:         cantidad,
		EstadoInventario: models.InventoryStatus(row[8]),
		Rating:           rating,
	}, nil
}
