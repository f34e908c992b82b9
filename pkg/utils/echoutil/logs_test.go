package echoutil_test

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/opst/todofab/pkg/utils/echoutil"
)

func TestSetLevel(t *testing.T) {
	for when, then := range map[string]log.Lvl{
		"debug":   log.DEBUG,
		"INFO":    log.INFO,
		"warn":    log.WARN,
		"":        log.WARN,
		"error":   log.ERROR,
		"off":     log.OFF,
		"verbose": log.WARN,
	} {
		t.Run("["+when+"]", func(t *testing.T) {
			e := echo.New()
			e.Logger.SetOutput(&bytes.Buffer{})
			echoutil.SetLevel(e, when)
			if actual := e.Logger.Level(); actual != then {
				t.Errorf("unmatch: (actual, expected) = (%d, %d)", actual, then)
			}
		})
	}
}

func TestLogHandlerFunc(t *testing.T) {
	t.Run("it logs request and response, and passes through the result", func(t *testing.T) {
		e := echo.New()
		buf := &bytes.Buffer{}
		e.Logger.SetOutput(buf)
		e.Logger.SetLevel(log.INFO)

		expectedErr := errors.New("fake error")
		handler := echoutil.LogHandlerFunc(func(c echo.Context) error {
			c.Response().WriteHeader(http.StatusTeapot)
			return expectedErr
		})

		req := httptest.NewRequest(http.MethodGet, "/api/tasks/", nil)
		c := e.NewContext(req, httptest.NewRecorder())

		if err := handler(c); !errors.Is(err, expectedErr) {
			t.Errorf("unexpected error: %v", err)
		}

		logs := buf.String()
		for _, want := range []string{"< request", "> response", "/api/tasks/", "status = 418", "fake error"} {
			if !strings.Contains(logs, want) {
				t.Errorf("log does not contain %q:\n%s", want, logs)
			}
		}
	})
}

func TestNewLogger(t *testing.T) {
	e := echo.New()
	buf := &bytes.Buffer{}
	e.Logger.SetOutput(buf)
	e.Logger.SetLevel(log.INFO)

	l := echoutil.NewLogger(e.Logger, "[goal-stats loop]")
	l.Info("hello")
	l.Debug("hidden")

	logs := buf.String()
	if !strings.Contains(logs, "[goal-stats loop]") || !strings.Contains(logs, "hello") {
		t.Errorf("unexpected log: %s", logs)
	}
	if strings.Contains(logs, "hidden") {
		t.Errorf("level is not shared: %s", logs)
	}
}
