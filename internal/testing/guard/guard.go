// Package guard switches the service into test mode when imported.
package guard

import (
	"os"
	"sync"
)

var once sync.Once

func init() {
	once.Do(func() {
		if os.Getenv("SERVICEORDER_TEST_MODE") == "" {
			_ = os.Setenv("SERVICEORDER_TEST_MODE", "1")
		}
	})
}
