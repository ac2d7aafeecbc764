package command

import (
	"context"
	"errors"
	"strings"
	"sync"
)

// Fake es un Runner en memoria para tests: registra cada invocación y
// devuelve salidas programadas por nombre de script.
type Fake struct {
	mu      sync.Mutex
	Outputs map[string]string
	Fail    map[string]bool
	calls   []FakeCall
}

type FakeCall struct {
	Name string
	Args []string
}

func NewFake() *Fake {
	return &Fake{
		Outputs: make(map[string]string),
		Fail:    make(map[string]bool),
	}
}

func (f *Fake) Run(ctx context.Context, name string, args ...string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, FakeCall{Name: name, Args: args})
	if f.Fail[name] {
		return "", errors.New("exit status 1")
	}
	return f.Outputs[name], nil
}

// Calls devuelve una copia de las invocaciones registradas.
func (f *Fake) Calls() []FakeCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]FakeCall, len(f.calls))
	copy(out, f.calls)
	return out
}

// CallCount cuenta invocaciones de un script.
func (f *Fake) CallCount(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c.Name == name {
			n++
		}
	}
	return n
}

// SetLog programa la salida del script de listado de conexiones.
func (f *Fake) SetLog(lines ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Outputs[ScriptListConnections] = strings.Join(lines, "\n")
}
