// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package utils

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// Option carries provider tuning keyed by dotted names such as "listen.model".
type Option map[string]interface{}

// GetString returns the value at key as a non empty string.
func (o Option) GetString(key string) (string, error) {
	v, ok := o[key]
	if !ok || v == nil {
		return "", fmt.Errorf("option %s not found", key)
	}
	var s string
	switch x := v.(type) {
	case string:
		s = x
	case fmt.Stringer:
		s = x.String()
	default:
		s = fmt.Sprintf("%v", x)
	}
	if IsEmpty(s) {
		return "", fmt.Errorf("option %s is empty", key)
	}
	return s, nil
}

// GetUint64 returns the value at key as an unsigned integer.
func (o Option) GetUint64(key string) (uint64, error) {
	v, ok := o[key]
	if !ok || v == nil {
		return 0, fmt.Errorf("option %s not found", key)
	}
	switch x := v.(type) {
	case uint64:
		return x, nil
	case int:
		if x < 0 {
			return 0, fmt.Errorf("option %s is negative", key)
		}
		return uint64(x), nil
	case int64:
		if x < 0 {
			return 0, fmt.Errorf("option %s is negative", key)
		}
		return uint64(x), nil
	case float64:
		if x < 0 {
			return 0, fmt.Errorf("option %s is negative", key)
		}
		return uint64(x), nil
	case string:
		return strconv.ParseUint(strings.TrimSpace(x), 10, 64)
	}
	return 0, fmt.Errorf("option %s has unsupported type %T", key, v)
}

// GetBool returns the value at key as a bool.
func (o Option) GetBool(key string) (bool, error) {
	v, ok := o[key]
	if !ok || v == nil {
		return false, fmt.Errorf("option %s not found", key)
	}
	switch x := v.(type) {
	case bool:
		return x, nil
	case string:
		return strconv.ParseBool(strings.TrimSpace(x))
	}
	return false, fmt.Errorf("option %s has unsupported type %T", key, v)
}

// GetStringSlice accepts []string, []interface{} or a SEPARATOR joined string.
func (o Option) GetStringSlice(key, separator string) ([]string, error) {
	v, ok := o[key]
	if !ok || v == nil {
		return nil, fmt.Errorf("option %s not found", key)
	}
	var raw []string
	switch x := v.(type) {
	case []string:
		raw = x
	case []interface{}:
		for _, it := range x {
			raw = append(raw, fmt.Sprintf("%v", it))
		}
	case string:
		raw = strings.Split(x, separator)
	default:
		return nil, fmt.Errorf("option %s has unsupported type %T", key, v)
	}
	out := make([]string, 0, len(raw))
	for _, s := range raw {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out, nil
}

// Decode maps the option onto a struct using mapstructure tags.
func (o Option) Decode(out interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
		TagName:          "mapstructure",
	})
	if err != nil {
		return err
	}
	return decoder.Decode(map[string]interface{}(o))
}
