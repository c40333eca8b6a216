// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package utils

import (
	"context"
	"fmt"
	"runtime/debug"
	"strings"
)

// IsEmpty reports whether s has no non whitespace content.
func IsEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}

// Go runs fn in a goroutine and recovers a panic into onPanic.
func Go(ctx context.Context, fn func(), onPanic ...func(error)) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				err := fmt.Errorf("panic: %v\n%s", r, debug.Stack())
				for _, h := range onPanic {
					h(err)
				}
			}
		}()
		fn()
	}()
}

type Environment string

const (
	PRODUCTION  Environment = "production"
	DEVELOPMENT Environment = "development"
)

func (e Environment) Get() string {
	return string(e)
}

// FromEnvironmentStr parses an environment name, defaulting to development.
func FromEnvironmentStr(s string) Environment {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "production":
		return PRODUCTION
	default:
		return DEVELOPMENT
	}
}
