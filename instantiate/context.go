package instantiate

import (
	"fmt"
	"strings"
	"time"

	"github.com/bootstrapp/bootstrapp/bsctx"
	"github.com/bootstrapp/bootstrapp/internal/bserrors"
)

// BuildContext seeds the initial render context from spec and the
// caller-supplied overrides, per §4.F's "Context seeding": the four
// CURRENT_* date values, TEMPLATE_VERSION, substitutions, resolved
// parameters, and the filtered packages list.
func BuildContext(spec *Spec, userParams map[string]string, excludePackages map[string]bool, now time.Time) (map[string]bsctx.Value, error) {
	values := map[string]bsctx.Value{
		"CURRENT_YEAR":     bsctx.String(now.Format("2006")),
		"CURRENT_DATE":     bsctx.String(now.Format("2006-01-02")),
		"CURRENT_DATETIME": bsctx.String(now.Format(time.RFC3339)),
		"CURRENT_TIME":     bsctx.String(now.Format("15:04:05")),
		"TEMPLATE_VERSION": bsctx.String(spec.TemplateVersion),
	}

	for k, v := range spec.Substitutions {
		values[k] = toValue(v)
	}

	resolved, err := resolveParameters(spec.Parameters, userParams)
	if err != nil {
		return nil, err
	}
	for k, v := range resolved {
		values[k] = v
	}

	values["packages"] = filterPackages(spec.Packages, excludePackages)

	return values, nil
}

// resolveParameters applies the per-parameter resolution rules of
// §4.F: a user-supplied value wins (coerced to bool for Bool
// parameters); otherwise String falls back to its default (or null),
// Bool falls back to its default (or false), and Option falls back to
// options[default] (or null).
func resolveParameters(specs []ParameterSpec, userParams map[string]string) (map[string]bsctx.Value, error) {
	out := make(map[string]bsctx.Value, len(specs))
	for _, p := range specs {
		if raw, ok := userParams[p.ID]; ok {
			out[p.ID] = coerceUserValue(p.Type, raw)
			continue
		}

		switch p.Type {
		case ParameterBool:
			if b, ok := p.Default.(bool); ok {
				out[p.ID] = bsctx.Bool(b)
			} else {
				out[p.ID] = bsctx.Bool(false)
			}
		case ParameterOption:
			if p.Default == nil {
				out[p.ID] = bsctx.Null
				continue
			}
			idx, ok := defaultIndex(p.Default)
			if !ok || idx < 0 || idx >= len(p.Options) {
				return nil, bserrors.Spec("", fmt.Errorf("parameter %q: default references an unknown option", p.ID))
			}
			out[p.ID] = bsctx.String(p.Options[idx])
		default: // ParameterString and unrecognized types behave as String
			if s, ok := p.Default.(string); ok && s != "" {
				out[p.ID] = bsctx.String(s)
			} else {
				out[p.ID] = bsctx.Null
			}
		}
	}
	return out, nil
}

func coerceUserValue(t ParameterType, raw string) bsctx.Value {
	if t == ParameterBool {
		return bsctx.Bool(strings.EqualFold(raw, "true"))
	}
	return bsctx.String(raw)
}

// defaultIndex accepts either a JSON number (float64, as
// encoding/json decodes untyped numbers) or an int for an Option
// parameter's default index.
func defaultIndex(v interface{}) (int, bool) {
	switch v := v.(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	default:
		return 0, false
	}
}

func filterPackages(packages []PackageSpec, exclude map[string]bool) bsctx.SeqValue {
	out := make(bsctx.SeqValue, 0, len(packages))
	for _, pkg := range packages {
		if exclude[pkg.Name()] {
			continue
		}
		out = append(out, toValue(map[string]interface{}(pkg)))
	}
	return out
}

// toValue converts a JSON-decoded interface{} tree (the shape
// encoding/json produces: map[string]interface{}, []interface{},
// string, float64, bool, nil) into a bsctx.Value tree.
func toValue(v interface{}) bsctx.Value {
	switch v := v.(type) {
	case nil:
		return bsctx.Null
	case string:
		return bsctx.String(v)
	case bool:
		return bsctx.Bool(v)
	case float64:
		return bsctx.Int(int64(v))
	case []interface{}:
		seq := make(bsctx.SeqValue, 0, len(v))
		for _, e := range v {
			seq = append(seq, toValue(e))
		}
		return seq
	case map[string]interface{}:
		m := make(bsctx.MapValue, len(v))
		for k, e := range v {
			m[k] = toValue(e)
		}
		return m
	default:
		return bsctx.Null
	}
}
