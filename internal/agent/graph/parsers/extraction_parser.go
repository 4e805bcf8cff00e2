package parsers

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/autoemporium/showroom-assistant/internal/agent/model"
	errx "github.com/autoemporium/showroom-assistant/internal/core/error"
	logx "github.com/autoemporium/showroom-assistant/pkg/logger"
)

// ExtractionResult is a parsed extraction reply.
type ExtractionResult struct {
	Preferences model.PartialPreferences
	// Issues names fields that were present but could not be coerced; those
	// slots are left unset.
	Issues []string
}

// ParseExtraction reads the slot object out of an extraction reply. It fails
// only when no object can be decoded; bad individual values are dropped.
func ParseExtraction(content string) (res *ExtractionResult, err error) {
	// panic safety
	defer func() {
		if r := recover(); r != nil {
			logx.Error().Str("component", "extraction_parser").Msgf("panic recovered: %v", r)
			err = errx.New(fmt.Errorf("extraction parser panic"), http.StatusInternalServerError, errx.SystemErrorMessage)
			res = nil
		}
	}()

	obj, err := decodeFirstObject(content)
	if err != nil {
		return nil, err
	}

	res = &ExtractionResult{}
	p := &res.Preferences
	issue := func(field string, v any) {
		res.Issues = append(res.Issues, fmt.Sprintf("%s: unusable value %s", field, safeSnippet(fmt.Sprint(v))))
	}

	if v, ok := obj[string(model.SlotSeatsMin)]; ok && v != nil {
		if n, ok := coerceInt(v); ok {
			p.SeatsMin = &n
		} else {
			issue(string(model.SlotSeatsMin), v)
		}
	}

	for slot, dst := range map[model.Slot]**string{
		model.SlotFuel:  &p.Fuel,
		model.SlotBody:  &p.Body,
		model.SlotBrand: &p.Brand,
		model.SlotModel: &p.Model,
	} {
		v, ok := obj[string(slot)]
		if !ok || v == nil {
			continue
		}
		if s, ok := coerceString(v); ok {
			*dst = &s
		} else {
			issue(string(slot), v)
		}
	}

	if v, ok := obj[string(model.SlotTransmissionBan)]; ok && v != nil {
		if list, ok := coerceStringList(v); ok {
			p.TransmissionBan = list
		} else {
			issue(string(model.SlotTransmissionBan), v)
		}
	}

	if v, ok := obj["test_drive_completed"]; ok && v != nil {
		if b, ok := coerceBool(v); ok {
			p.TestDriveCompleted = &b
		} else {
			issue("test_drive_completed", v)
		}
	}

	return res, nil
}

// --- coercion helpers ---

func coerceInt(v any) (int, bool) {
	switch vv := v.(type) {
	case float64:
		if math.IsNaN(vv) || math.IsInf(vv, 0) || vv != math.Trunc(vv) {
			return 0, false
		}
		return int(vv), true
	case string:
		s := strings.TrimSpace(vv)
		if n, err := strconv.Atoi(s); err == nil {
			return n, true
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return coerceInt(f)
		}
	}
	return 0, false
}

func coerceString(v any) (string, bool) {
	switch vv := v.(type) {
	case string:
		s := strings.TrimSpace(vv)
		return s, s != ""
	case float64:
		// model names such as "3" (Mazda 3) come back as numbers
		return strconv.FormatFloat(vv, 'f', -1, 64), true
	}
	return "", false
}

func coerceStringList(v any) ([]string, bool) {
	switch vv := v.(type) {
	case string:
		var out []string
		for _, part := range strings.Split(vv, ",") {
			if s := strings.TrimSpace(part); s != "" {
				out = append(out, s)
			}
		}
		return out, true
	case []any:
		out := make([]string, 0, len(vv))
		for _, item := range vv {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
		return out, true
	}
	return nil, false
}

func coerceBool(v any) (bool, bool) {
	switch vv := v.(type) {
	case bool:
		return vv, true
	case string:
		switch strings.ToLower(strings.TrimSpace(vv)) {
		case "true", "yes", "y", "1":
			return true, true
		case "false", "no", "n", "0":
			return false, true
		}
	case float64:
		if vv == 0 || vv == 1 {
			return vv == 1, true
		}
	}
	return false, false
}
