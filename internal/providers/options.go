// internal/providers/options.go
package providers

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// RequestOptions holds generation parameters shared by all backends. A nil
// field means "not specified" and is never transmitted.
type RequestOptions struct {
	MaxTokens         *int     `json:"max_tokens,omitempty" validate:"omitempty,gte=0"`
	Temperature       *float64 `json:"temperature,omitempty" validate:"omitempty,gte=0,lte=1"`
	TopK              *int     `json:"top_k,omitempty" validate:"omitempty,gte=0,lte=100"`
	TopP              *float64 `json:"top_p,omitempty" validate:"omitempty,gte=0,lte=1"`
	ContextWindowSize *int     `json:"context_window_size,omitempty" validate:"omitempty,gte=0"`
	Seed              *int     `json:"seed,omitempty"`
	MinP              *float64 `json:"min_p,omitempty" validate:"omitempty,gte=0,lte=1"`
	TypicalP          *float64 `json:"typical_p,omitempty" validate:"omitempty,gte=0,lte=1"`
	RepeatLastN       *int     `json:"repeat_last_n,omitempty" validate:"omitempty,gte=0"`
	RepeatPenalty     *float64 `json:"repeat_penalty,omitempty" validate:"omitempty,gte=0"`
	PresencePenalty   *float64 `json:"presence_penalty,omitempty"`
	FrequencyPenalty  *float64 `json:"frequency_penalty,omitempty"`
	Mirostat          *int     `json:"mirostat,omitempty" validate:"omitempty,oneof=0 1 2"`
	MirostatTau       *float64 `json:"mirostat_tau,omitempty" validate:"omitempty,gte=0"`
	MirostatEta       *float64 `json:"mirostat_eta,omitempty" validate:"omitempty,gte=0"`
	PenalizeNewline   *bool    `json:"penalize_newline,omitempty"`
	Stop              []string `json:"stop,omitempty" validate:"omitempty,dive,required"`
	NumGPU            *int     `json:"num_gpu,omitempty" validate:"omitempty,gte=0"`
	MainGPU           *int     `json:"main_gpu,omitempty" validate:"omitempty,gte=0"`
	LowVRAM           *bool    `json:"low_vram,omitempty"`
	NumThread         *int     `json:"num_thread,omitempty" validate:"omitempty,gte=0"`
	NumBatch          *int     `json:"num_batch,omitempty" validate:"omitempty,gte=0"`
	NumKeep           *int     `json:"num_keep,omitempty" validate:"omitempty,gte=0"`
}

var optionsValidate = newOptionsValidator()

func newOptionsValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// Validate reports the first field outside its declared range. It does not
// modify the options. A nil receiver is valid.
func (o *RequestOptions) Validate() error {
	if o == nil {
		return nil
	}
	err := optionsValidate.Struct(o)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return &ValidationError{Field: fe.Field(), Reason: describeFieldError(fe)}
	}
	return &ValidationError{Field: "options", Reason: err.Error()}
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "gte":
		return fmt.Sprintf("must be >= %s, got %v", fe.Param(), fe.Value())
	case "lte":
		return fmt.Sprintf("must be <= %s, got %v", fe.Param(), fe.Value())
	case "oneof":
		return fmt.Sprintf("must be one of [%s], got %v", fe.Param(), fe.Value())
	case "required":
		return "entries must not be empty"
	default:
		return fmt.Sprintf("failed %q check, got %v", fe.Tag(), fe.Value())
	}
}

// Int returns a pointer to v, for building RequestOptions literals.
func Int(v int) *int { return &v }

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }

// Bool returns a pointer to v.
func Bool(v bool) *bool { return &v }

// SetFields returns the explicitly set fields keyed by their canonical names
// (the json names above). Unset fields are absent from the map.
func (o *RequestOptions) SetFields() map[string]any {
	fields := map[string]any{}
	if o == nil {
		return fields
	}
	putInt := func(key string, v *int) {
		if v != nil {
			fields[key] = *v
		}
	}
	putFloat := func(key string, v *float64) {
		if v != nil {
			fields[key] = *v
		}
	}
	putBool := func(key string, v *bool) {
		if v != nil {
			fields[key] = *v
		}
	}
	putInt("max_tokens", o.MaxTokens)
	putFloat("temperature", o.Temperature)
	putInt("top_k", o.TopK)
	putFloat("top_p", o.TopP)
	putInt("context_window_size", o.ContextWindowSize)
	putInt("seed", o.Seed)
	putFloat("min_p", o.MinP)
	putFloat("typical_p", o.TypicalP)
	putInt("repeat_last_n", o.RepeatLastN)
	putFloat("repeat_penalty", o.RepeatPenalty)
	putFloat("presence_penalty", o.PresencePenalty)
	putFloat("frequency_penalty", o.FrequencyPenalty)
	putInt("mirostat", o.Mirostat)
	putFloat("mirostat_tau", o.MirostatTau)
	putFloat("mirostat_eta", o.MirostatEta)
	putBool("penalize_newline", o.PenalizeNewline)
	if len(o.Stop) > 0 {
		fields["stop"] = append([]string(nil), o.Stop...)
	}
	putInt("num_gpu", o.NumGPU)
	putInt("main_gpu", o.MainGPU)
	putBool("low_vram", o.LowVRAM)
	putInt("num_thread", o.NumThread)
	putInt("num_batch", o.NumBatch)
	putInt("num_keep", o.NumKeep)
	return fields
}

// TranslateOptions renames the set fields of o for a backend. Fields without
// an entry in renames keep their canonical name.
func TranslateOptions(o *RequestOptions, renames map[string]string) map[string]any {
	out := map[string]any{}
	for key, val := range o.SetFields() {
		if renamed, ok := renames[key]; ok {
			key = renamed
		}
		out[key] = val
	}
	return out
}
