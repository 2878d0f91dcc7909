package repository

// Package repository contains record store abstractions.
// Implementations live in subpackages (e.g., memory) inside this directory.
//
// The only implementation in this system is in-memory: records survive for
// the lifetime of the process and are lost on restart. That limitation is
// part of the contract, not an accident.

import "errors"

// ErrNotFound is returned when a record does not exist in the store.
var ErrNotFound = errors.New("record not found")
