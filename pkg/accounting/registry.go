// SPDX-License-Identifier: EPL-2.0
// Copyright (c) 2025-present Marko Kocić <marko@euptera.com>

package accounting

import (
	"fmt"
	"sort"
	"sync"
)

var (
	registryMu sync.RWMutex
	registry   = map[string]func() Method{}
)

// Register makes a method constructor available under name. Built-in
// methods register themselves from their package's init() function, the
// way the original engine discovered accounting_method plugins by import
// side effect; here the side effect is an explicit blank import instead of
// filesystem scanning.
func Register(name string, constructor func() Method) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = constructor
}

// New instantiates the registered method for name.
func New(name string) (Method, error) {
	registryMu.RLock()
	constructor, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("accounting: unknown method %q (registered: %v)", name, Names())
	}
	return constructor(), nil
}

// Names returns the sorted list of registered method names.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
