package cerr

import (
	"github.com/apex/log"
	"github.com/cockroachdb/errors"
)

type F = map[string]any

type Context struct {
	fields F
}

type Wrapper struct {
	context Context
	cause   error
}

// fieldsError carries structured fields alongside the wrapped error so that
// Log can report them without having to parse messages.
type fieldsError struct {
	cause  error
	fields F
}

func (f *fieldsError) Error() string { return f.cause.Error() }
func (f *fieldsError) Unwrap() error { return f.cause }
func (f *fieldsError) Cause() error  { return f.cause }

func Field(key string, value any) Context {
	return Context{}.Field(key, value)
}

func Fields(fields F) Context {
	return Context{}.Fields(fields)
}

func Wrap(err error) Wrapper {
	return Context{}.Wrap(err)
}

func Error(msg string) error {
	return Context{}.errorWithDepth(2, msg)
}

func (c Context) Field(key string, value any) Context {
	return c.Fields(F{key: value})
}

func (c Context) Fields(fields F) Context {
	merged := make(F, len(c.fields)+len(fields))
	for k, v := range c.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}

	return Context{fields: merged}
}

func (c Context) Wrap(err error) Wrapper {
	return Wrapper{context: c, cause: err}
}

func (c Context) Error(msg string) error {
	return c.errorWithDepth(2, msg)
}

func (c Context) errorWithDepth(depth int, msg string) error {
	return c.attach(errors.NewWithDepth(depth, msg))
}

func (c Context) attach(err error) error {
	if len(c.fields) == 0 {
		return err
	}

	return &fieldsError{cause: err, fields: c.fields}
}

func (w Wrapper) Error(msg string) error {
	if w.cause == nil {
		return w.context.errorWithDepth(2, msg)
	}

	return w.context.attach(errors.WrapWithDepth(1, w.cause, msg))
}

// FieldsOf collects every field attached anywhere in the error chain.
// Outer fields win over inner ones with the same key.
func FieldsOf(err error) log.Fields {
	fields := log.Fields{}
	var chain []*fieldsError

	for current := err; current != nil; current = errors.UnwrapOnce(current) {
		if withFields, ok := current.(*fieldsError); ok {
			chain = append(chain, withFields)
		}
	}

	for i := len(chain) - 1; i >= 0; i-- {
		for k, v := range chain[i].fields {
			fields[k] = v
		}
	}

	return fields
}

func Log(err error) {
	if err == nil {
		return
	}

	log.WithFields(FieldsOf(err)).
		WithError(err).
		Error("Encountered error")
}
