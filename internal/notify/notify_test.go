package notify

import (
	"sync"
	"testing"
)

func TestQueue_DrainOrderAndReset(t *testing.T) {
	var q Queue
	q.Add(Success("Exitoso", "Producto Creado"))
	q.Add(Toast{Severity: SeverityInfo, Summary: "Info", Detail: "sin vida"})

	got := q.Drain()
	if len(got) != 2 {
		t.Fatalf("expected 2 toasts, got %d", len(got))
	}
	if got[0].Detail != "Producto Creado" || got[1].Detail != "sin vida" {
		t.Errorf("unexpected order: %+v", got)
	}
	if got[1].Life != DefaultLife {
		t.Errorf("expected default life %d, got %d", DefaultLife, got[1].Life)
	}
	if q.Len() != 0 {
		t.Errorf("expected empty queue after drain, got %d", q.Len())
	}
	if again := q.Drain(); again != nil {
		t.Errorf("expected nil on second drain, got %+v", again)
	}
}

func TestError(t *testing.T) {
	toast := Error("Error al crear producto")
	if toast.Severity != SeverityError || toast.Summary != "Error" || toast.Life != DefaultLife {
		t.Errorf("unexpected toast: %+v", toast)
	}
}

func TestQueue_ConcurrentAdd(t *testing.T) {
	var q Queue
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			q.Add(Error("x"))
		}()
	}
	wg.Wait()

	if q.Len() != 50 {
		t.Errorf("expected 50 toasts, got %d", q.Len())
	}
}
