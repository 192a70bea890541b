package guard

import (
	"os"
	"sync"
)

var once sync.Once

func init() {
	once.Do(func() {
		if os.Getenv("STOCKFRONT_TEST_MODE") == "" {
			_ = os.Setenv("STOCKFRONT_TEST_MODE", "1")
		}
	})
}
