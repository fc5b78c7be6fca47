// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cache

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"reflect"
	"runtime"
	"runtime/debug"
	"sort"
	"strings"
)

// Named is implemented by computations that can appear in cache keys,
// either as the cached function or as an option value.
type Named interface {
	FuncName() string
}

// ComputeKey builds a cache key from a computation name and its options:
//
//	func_<name>(<value>, <value>, ...)
//
// Struct options are serialized field by field in declaration order, map
// options in sorted key order. An empty name logs a warning since unnamed
// computations share keys.
func ComputeKey(name string, options any) string {
	if name == "" {
		slog.Warn("found a computation without name, cache keys may collide",
			"stack", string(debug.Stack()),
		)
	}

	return "func_" + name + "(" + strings.Join(serializeOptions(options), ", ") + ")"
}

func serializeOptions(options any) []string {
	if options == nil {
		return nil
	}

	v := reflect.ValueOf(options)
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}

	var parts []string
	switch v.Kind() {
	case reflect.Struct:
		t := v.Type()
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if !f.IsExported() || f.Tag.Get("json") == "-" {
				continue
			}
			parts = append(parts, serializeValue(v.Field(i).Interface()))
		}
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return []string{serializeValue(v.Interface())}
		}
		keys := v.MapKeys()
		sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
		for _, k := range keys {
			parts = append(parts, serializeValue(v.MapIndex(k).Interface()))
		}
	default:
		parts = append(parts, serializeValue(v.Interface()))
	}

	return parts
}

func serializeValue(x any) string {
	if n, ok := x.(Named); ok {
		return n.FuncName()
	}

	if v := reflect.ValueOf(x); v.Kind() == reflect.Func {
		if v.IsNil() {
			return ""
		}
		if fn := runtime.FuncForPC(v.Pointer()); fn != nil {
			return fn.Name()
		}
		return ""
	}

	b, err := json.Marshal(x)
	if err != nil {
		return fmt.Sprintf("%v", x)
	}
	return string(b)
}
