package config

import (
	"context"
	"reflect"
	"strings"

	log "github.com/faithcomesbyhearing/lexdecoder/logger"
)

// Validate checks a Request for the mutually-exclusive source selections and
// required fields a decode run needs, via the same reflection-walk-and-
// accumulate pattern used elsewhere in this codebase for nested option
// structs, returning every problem found, joined into one *log.Status, so a
// caller can treat it like any other failure.
func Validate(req *Request) *log.Status {
	var errs []string

	if req.DatasetName == `` {
		errs = append(errs, `Required field dataset_name is empty`)
	}
	if req.Username == `` {
		errs = append(errs, `Required field username is empty`)
	}
	if req.Emissions.Path == `` {
		errs = append(errs, `Required field emissions.path is empty`)
	}
	if req.Emissions.Width <= 0 {
		errs = append(errs, `Required field emissions.width must be positive`)
	}

	checkForOne(reflect.ValueOf(req.Lexicon), []string{"Sheet", "Column"}, &errs, `lexicon`)
	checkForOne(reflect.ValueOf(req.LM), []string{"NgramCounts", "ExternalArgs"}, &errs, `language_model`)

	if len(req.Emissions.Alphabet) > 0 && req.Emissions.Width > 0 && len(req.Emissions.Alphabet) != req.Emissions.Width {
		errs = append(errs, `Field emissions.alphabet length must equal emissions.width`)
	}

	switch req.Decoder.Criterion {
	case `ctc`, `asg`:
	default:
		errs = append(errs, `Field decoder.criterion must be "ctc" or "asg", got "`+req.Decoder.Criterion+`"`)
	}
	if req.Decoder.BeamSize < 1 {
		errs = append(errs, `Field decoder.beam_size must be at least 1`)
	}
	if req.Decoder.BeamSizeToken < 1 {
		errs = append(errs, `Field decoder.beam_size_token must be at least 1`)
	}

	if len(errs) > 0 {
		return log.ErrorNoErr(context.Background(), 400, strings.Join(errs, `; `))
	}
	return nil
}

// checkForOne reports an error on errs if more than one settable field of
// structVal (ignoring the names in skip) is non-zero.
func checkForOne(structVal reflect.Value, skip []string, errs *[]string, fieldName string) int {
	var wasSet []string
	for i := 0; i < structVal.NumField(); i++ {
		field := structVal.Field(i)
		name := structVal.Type().Field(i).Name
		if contains(skip, name) {
			continue
		}
		switch field.Kind() {
		case reflect.String:
			if field.String() != `` {
				wasSet = append(wasSet, name)
			}
		case reflect.Bool:
			if field.Bool() {
				wasSet = append(wasSet, name)
			}
		case reflect.Slice:
			if field.Len() > 0 {
				wasSet = append(wasSet, name)
			}
		}
	}
	if len(wasSet) > 1 {
		*errs = append(*errs, `Only one of `+strings.Join(wasSet, `, `)+` may be set on `+fieldName)
	}
	return len(wasSet)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
