package rollbar

import (
	"fmt"
	"net/http"
	"os"
	"sync"

	"github.com/kiteco/dnamutation/kite-golib/logging"
	rollbar "github.com/rollbar/rollbar-go"
	"go.uber.org/zap"
)

var (
	logger = logging.Sugar("rollbar")

	mu       sync.Mutex
	accepted = newLimiter(defaultSampleRate, defaultDelay)
	sent     int
)

func init() {
	// Without a token reporting is a noop that only logs, which is what we want
	// while developing and in tests.
	rollbar.SetToken(os.Getenv("ROLLBAR_TOKEN"))

	env := os.Getenv("ROLLBAR_ENV")
	if env == "" {
		env = "development"
	}
	rollbar.SetEnvironment(env)
}

// SetCodeVersion tags reports with the running release.
func SetCodeVersion(ver string) {
	rollbar.SetCodeVersion(ver)
}

// Disable turns reporting off entirely.
func Disable() {
	rollbar.SetToken("")
	rollbar.SetEnabled(false)
}

// Wait blocks until queued reports have been delivered.
func Wait() {
	rollbar.Wait()
}

// Error sends an error report.
func Error(err error, data ...interface{}) {
	send(rollbar.ERR, nil, err, data...)
}

// Critical sends a critical error report.
func Critical(err error, data ...interface{}) {
	send(rollbar.CRIT, nil, err, data...)
}

// RequestError sends an error report along with details of the request that failed.
func RequestError(err error, r *http.Request, data ...interface{}) {
	send(rollbar.ERR, r, err, data...)
}

// RecoveryError reports a panic recovered while serving r.
func RecoveryError(recovered interface{}, r *http.Request) {
	send(rollbar.CRIT, r, fmt.Errorf("panic: %v", recovered))
}

// Sent returns the number of reports handed to rollbar since startup.
func Sent() int {
	mu.Lock()
	defer mu.Unlock()
	return sent
}

func send(level string, r *http.Request, err error, data ...interface{}) {
	if rollbar.Token() == "" {
		logger.Desugar().Warn("rollbar disabled, not reporting",
			zap.String("level", level), zap.Error(err), zap.Any("data", data))
		return
	}

	if !accepted() {
		logger.Debugw("dropping rollbar event due to filtering", "error", err)
		return
	}

	extras := make(map[string]interface{}, len(data))
	for idx, d := range data {
		extras[fmt.Sprintf("data%d", idx)] = d
	}

	mu.Lock()
	sent++
	mu.Unlock()

	// skip send and its exported caller so the report points at the failing code
	skip := 3
	if r != nil {
		rollbar.RequestErrorWithStackSkipWithExtras(level, r, err, skip, extras)
		return
	}
	rollbar.ErrorWithStackSkipWithExtras(level, err, skip, extras)
}
