package testing

import (
	"os"
	"sync"
	stdtesting "testing"
)

var once sync.Once

func ensureTestMode() {
	once.Do(func() {
		_ = os.Setenv("SERVICEORDER_TEST_MODE", "1")
		if os.Getenv("CONVERTER_BIN") == "" {
			_ = os.Setenv("CONVERTER_BIN", "pdfgen-unavailable")
		}
		if os.Getenv("PDFGEN_GOTENBERG_URL") == "" {
			_ = os.Setenv("PDFGEN_GOTENBERG_URL", "http://127.0.0.1:0")
		}
	})
}

func init() {
	ensureTestMode()
}

func TestMain(m *stdtesting.M) {
	ensureTestMode()
	os.Exit(m.Run())
}
