package server

import (
	"fmt"
	"math"
	"net/url"
	"regexp"
	"strconv"

	"github.com/gogpu/ggcircle"
)

// Query parameter names shared by the form, the figure endpoints and the
// export endpoint.
const (
	paramCenterX    = "cx"
	paramCenterY    = "cy"
	paramRadius     = "r"
	paramPointCount = "n"
	paramColor      = "color"
	paramExport     = "export"
)

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// badRequestError marks a parameter the form could not have produced.
type badRequestError struct {
	param string
	value string
	err   error
}

func (e *badRequestError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("invalid %s %q: %v", e.param, e.value, e.err)
	}
	return fmt.Sprintf("invalid %s %q", e.param, e.value)
}

func (e *badRequestError) Unwrap() error { return e.err }

// parseSpec reads a CircleSpec from form values. Missing values take the
// form defaults; radius and point count are clamped to the widget bounds.
func parseSpec(q url.Values) (ggcircle.CircleSpec, error) {
	spec := ggcircle.DefaultCircleSpec()

	var err error
	if spec.Center.X, err = parseFloat(q, paramCenterX, spec.Center.X); err != nil {
		return spec, err
	}
	if spec.Center.Y, err = parseFloat(q, paramCenterY, spec.Center.Y); err != nil {
		return spec, err
	}
	if spec.Radius, err = parseFloat(q, paramRadius, spec.Radius); err != nil {
		return spec, err
	}
	if s := q.Get(paramPointCount); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return spec, &badRequestError{param: paramPointCount, value: s, err: err}
		}
		spec.PointCount = n
	}
	if s := q.Get(paramColor); s != "" {
		if !hexColor.MatchString(s) {
			return spec, &badRequestError{param: paramColor, value: s}
		}
		spec.PointColor = s
	}
	return spec.Clamp(), nil
}

func parseFloat(q url.Values, name string, def float64) (float64, error) {
	s := q.Get(name)
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, &badRequestError{param: name, value: s, err: err}
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &badRequestError{param: name, value: s}
	}
	return v, nil
}

// specValues encodes spec as form values, the inverse of parseSpec.
func specValues(spec ggcircle.CircleSpec) url.Values {
	return url.Values{
		paramCenterX:    {formatFloat(spec.Center.X)},
		paramCenterY:    {formatFloat(spec.Center.Y)},
		paramRadius:     {formatFloat(spec.Radius)},
		paramPointCount: {strconv.Itoa(spec.PointCount)},
		paramColor:      {spec.PointColor},
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
