package imports

import (
	"os"
	"path/filepath"
	"testing"
)

func TestExtractRustImport(t *testing.T) {
	tests := []struct {
		line string
		want string
		ok   bool
	}{
		{"use crate::models::Feature;", "crate::models::Feature", true},
		{"use super::helper;", "super::helper", true},
		{"use self::utils;", "self::utils", true},
		{"use crate::scanner::{Scanner, Config};", "crate::scanner::", true},
		{"use std::collections::HashMap;", "", false},
		{"let x = 1;", "", false},
	}

	for _, tt := range tests {
		got, ok := extractRustImport(tt.line)
		if ok != tt.ok || got != tt.want {
			t.Errorf("extractRustImport(%q) = %q, %v; want %q, %v", tt.line, got, ok, tt.want, tt.ok)
		}
	}
}

func TestExtractJavaScriptImport(t *testing.T) {
	tests := []struct {
		line string
		want string
		ok   bool
	}{
		{"import { Feature } from './models';", "./models", true},
		{"import './side-effect';", "./side-effect", true},
		{"export { Feature } from './models';", "./models", true},
		{"const x = require('../utils');", "../utils", true},
		{"import React from \"react\";", "react", true},
		{"const y = 1;", "", false},
	}

	for _, tt := range tests {
		got, ok := extractJavaScriptImport(tt.line)
		if ok != tt.ok || got != tt.want {
			t.Errorf("extractJavaScriptImport(%q) = %q, %v; want %q, %v", tt.line, got, ok, tt.want, tt.ok)
		}
	}
}

func TestExtractPythonImport(t *testing.T) {
	tests := []struct {
		line string
		want string
		ok   bool
	}{
		{"from .models import Feature", ".models", true},
		{"from ..utils import helper", "..utils", true},
		{"from os import path", "", false},
		{"import .sibling as s", ".sibling", true},
		{"import numpy", "", false},
	}

	for _, tt := range tests {
		got, ok := extractPythonImport(tt.line)
		if ok != tt.ok || got != tt.want {
			t.Errorf("extractPythonImport(%q) = %q, %v; want %q, %v", tt.line, got, ok, tt.want, tt.ok)
		}
	}
}

func TestExtractJavaLikeImport(t *testing.T) {
	tests := []struct {
		line string
		want string
		ok   bool
	}{
		{"import com.example.Feature;", "com.example.Feature", true},
		{"import static org.junit.Assert.*;", "", false},
		{"using System.Collections;", "System.Collections", true},
		{"using var stream = File.Open();", "", false},
	}

	for _, tt := range tests {
		got, ok := extractJavaLikeImport(tt.line)
		if ok != tt.ok || got != tt.want {
			t.Errorf("extractJavaLikeImport(%q) = %q, %v; want %q, %v", tt.line, got, ok, tt.want, tt.ok)
		}
	}
}

func TestExtractCInclude(t *testing.T) {
	tests := []struct {
		line string
		want string
		ok   bool
	}{
		{`#include "feature.h"`, "feature.h", true},
		{`#include <stdio.h>`, "", false},
		{`#include <sys/types.h>`, "sys/types.h", true},
	}

	for _, tt := range tests {
		got, ok := extractCInclude(tt.line)
		if ok != tt.ok || got != tt.want {
			t.Errorf("extractCInclude(%q) = %q, %v; want %q, %v", tt.line, got, ok, tt.want, tt.ok)
		}
	}
}

func TestExtractRubyRequire(t *testing.T) {
	tests := []struct {
		line string
		want string
		ok   bool
	}{
		{`require_relative "helper"`, "helper", true},
		{`require "./local"`, "./local", true},
		{`require "json"`, "", false},
	}

	for _, tt := range tests {
		got, ok := extractRubyRequire(tt.line)
		if ok != tt.ok || got != tt.want {
			t.Errorf("extractRubyRequire(%q) = %q, %v; want %q, %v", tt.line, got, ok, tt.want, tt.ok)
		}
	}
}

func TestExtractShellSource(t *testing.T) {
	tests := []struct {
		line string
		want string
		ok   bool
	}{
		{"source ./lib.sh", "./lib.sh", true},
		{`source "./lib.sh"`, "./lib.sh", true},
		{". ./lib.sh", "./lib.sh", true},
		{"../run.sh", "", false},
	}

	for _, tt := range tests {
		got, ok := extractShellSource(tt.line)
		if ok != tt.ok || got != tt.want {
			t.Errorf("extractShellSource(%q) = %q, %v; want %q, %v", tt.line, got, ok, tt.want, tt.ok)
		}
	}
}

func TestScanFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "main.ts")
	content := "import { a } from './a';\nconst x = 1;\nexport { b } from './b';\n"
	if err := os.WriteFile(file, []byte(content), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	statements := ScanFile(file)
	if len(statements) != 2 {
		t.Fatalf("len(statements) = %d, want 2", len(statements))
	}
	if statements[0].ImportedPath != "./a" || statements[0].LineNumber != 1 {
		t.Errorf("first statement = %+v", statements[0])
	}
	if statements[1].ImportedPath != "./b" || statements[1].LineNumber != 3 {
		t.Errorf("second statement = %+v", statements[1])
	}
}

func TestScanFileUnsupportedExtension(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "notes.md")
	if err := os.WriteFile(file, []byte("import x from './y';\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if got := ScanFile(file); got != nil {
		t.Errorf("unsupported extension should yield nil, got %v", got)
	}
}

func TestScanFileUnreadable(t *testing.T) {
	if got := ScanFile(filepath.Join(t.TempDir(), "missing.ts")); got != nil {
		t.Errorf("missing file should yield nil, got %v", got)
	}
}
