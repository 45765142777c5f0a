package monitoring

import (
	"errors"

	"github.com/kilianp07/gridfeed/core/model"
)

// ErrorClass names the taxonomy bucket of a collector error.
func ErrorClass(err error) string {
	var (
		cfg  *model.ConfigError
		up   *model.UpstreamQueryError
		fmtE *model.FormatError
		uns  *model.UnsupportedRequestError
	)
	switch {
	case err == nil:
		return ""
	case errors.Is(err, model.ErrAuth):
		return "auth"
	case errors.As(err, &cfg):
		return "config"
	case errors.As(err, &up):
		return "upstream"
	case errors.As(err, &fmtE):
		return "format"
	case errors.As(err, &uns):
		return "unsupported"
	default:
		return "unknown"
	}
}

// CaptureFetchError reports a collector failure tagged with its source,
// kind, zone and error class. Unsupported requests are caller mistakes and
// are not reported.
func CaptureFetchError(err error, source, kind, zone string) {
	class := ErrorClass(err)
	if class == "" || class == "unsupported" {
		return
	}
	CaptureException(err, map[string]string{
		"module":      "collector",
		"source":      source,
		"kind":        kind,
		"zone":        zone,
		"error_class": class,
	})
}
