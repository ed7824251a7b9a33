package component

import (
	"errors"

	cerrors "github.com/vango-dev/compose/internal/errors"
)

var (
	// ErrNoComponentName is matched by configuration errors: the bound
	// value does not name a component.
	ErrNoComponentName = errors.New("component: no component name specified")

	// ErrUnknownComponent is matched when the registry has no definition
	// for a name.
	ErrUnknownComponent = errors.New("component: unknown component")

	// ErrMissingTemplate is matched when neither the definition nor the
	// view-model supplies a template.
	ErrMissingTemplate = errors.New("component: component has no template")

	// ErrInvalidTemplate is matched when an HTML template cannot be parsed.
	ErrInvalidTemplate = errors.New("component: invalid template")
)

func configurationError(format string, args ...any) error {
	return cerrors.New("E201").Kind(ErrNoComponentName).WithDetailf(format, args...)
}

func unknownComponentError(name string, cause error) error {
	e := cerrors.New("E202").Kind(ErrUnknownComponent).WithDetailf("%q", name)
	if cause != nil {
		e = e.Wrap(cause)
	}
	return e
}

func missingTemplateError(name string) error {
	return cerrors.New("E203").Kind(ErrMissingTemplate).WithDetailf("component %q has no template", name)
}

func invalidTemplateError(name string, cause error) error {
	return cerrors.New("E205").Kind(ErrInvalidTemplate).WithDetailf("template of component %q", name).Wrap(cause)
}
