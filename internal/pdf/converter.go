// Package pdf converts rendered HTML documents into PDF files through an
// external converter and provides the backends used by the converter tool.
package pdf

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrConverterUnavailable indicates the converter process could not be started.
	ErrConverterUnavailable = errors.New("pdf: converter unavailable")
	// ErrConverterTimeout indicates the converter exceeded its deadline and was killed.
	ErrConverterTimeout = errors.New("pdf: converter timeout")
	// ErrConverterFailed indicates the converter ran and reported a failure.
	ErrConverterFailed = errors.New("pdf: conversion failed")
)

// Metadata is the envelope handed to the converter for page decorations.
// The JSON keys are part of the converter contract.
type Metadata struct {
	Number   string `json:"numero"`
	Date     string `json:"data"`
	Company  string `json:"empresa"`
	Customer string `json:"cliente"`
}

// ParseMetadata decodes the metadata argument of the converter contract.
func ParseMetadata(raw string) (Metadata, error) {
	var meta Metadata
	if err := json.Unmarshal([]byte(raw), &meta); err != nil {
		return Metadata{}, fmt.Errorf("parse metadata: %w", err)
	}
	return meta, nil
}

// Result is the JSON object a converter prints on standard output.
type Result struct {
	Success    bool   `json:"success"`
	OutputPath string `json:"output_path,omitempty"`
	Message    string `json:"message,omitempty"`
	Error      string `json:"error,omitempty"`
}

// Converter turns an HTML document into a PDF file at dest.
type Converter interface {
	Convert(ctx context.Context, html, dest string, meta Metadata) (*Result, error)
}

// ConversionError carries the diagnostics captured from a failed conversion.
type ConversionError struct {
	Kind     error
	ExitCode int
	Stdout   string
	Stderr   string
	Cause    error
}

func (e *ConversionError) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.Error())
	if e.ExitCode != 0 {
		fmt.Fprintf(&b, " (exit code %d)", e.ExitCode)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	if s := strings.TrimSpace(e.Stderr); s != "" {
		b.WriteString("\nSTDERR: ")
		b.WriteString(s)
	}
	if s := strings.TrimSpace(e.Stdout); s != "" {
		b.WriteString("\nSTDOUT: ")
		b.WriteString(s)
	}
	return b.String()
}

func (e *ConversionError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}
