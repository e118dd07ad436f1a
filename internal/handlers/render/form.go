package render

import (
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/memojjang/memojjang/internal/service/validate"
)

type Struct any

// BindForm decodes a form encoded request body into type T using 'form'
// struct tags. Only string fields are supported, which covers every form
// this app has.
func BindForm[T Struct](r *http.Request) (T, error) {
	var value T

	if err := r.ParseForm(); err != nil {
		return value, fmt.Errorf("can't parse form body: %w", err)
	}

	v := reflect.ValueOf(&value).Elem()
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		name := strings.SplitN(t.Field(i).Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			continue
		}

		if v.Field(i).Kind() != reflect.String {
			return value, fmt.Errorf("form field %q: only string fields are supported", name)
		}
		v.Field(i).SetString(r.PostForm.Get(name))
	}

	return value, nil
}

// Form carries submitted values and per-field messages back into a
// re-rendered template
type Form struct {
	Values map[string]string
	Errors map[string]string
}

func NewForm() *Form {
	return &Form{
		Values: map[string]string{},
		Errors: map[string]string{},
	}
}

// FormWithValues pre-fills the form, e.g. for an edit page
func FormWithValues(values map[string]string) *Form {
	f := NewForm()
	for k, v := range values {
		f.Values[k] = v
	}
	return f
}

// SetErrors copies field errors into the form, keeping the first message
// per field
func (f *Form) SetErrors(errs validate.FieldErrors) *Form {
	for _, fe := range errs {
		if _, ok := f.Errors[fe.Field]; !ok {
			f.Errors[fe.Field] = fe.Message
		}
	}
	return f
}

func (f *Form) Value(name string) string {
	return f.Values[name]
}

func (f *Form) Error(name string) string {
	return f.Errors[name]
}
