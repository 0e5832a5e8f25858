package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchTopLevelDeclaration(t *testing.T) {
	tests := []struct {
		name   string
		line   string
		want   string
		wantOK bool
	}{
		{"plain", "class_name Player", "Player", true},
		{"indented", "  \tclass_name Player", "Player", true},
		{"with extends", "class_name Player extends CharacterBody3D", "Player", true},
		{"underscore", "class_name C_DamageZoneComponent", "C_DamageZoneComponent", true},
		{"unicode letters", "class_name Ünit extends Node", "Ünit", true},
		{"unicode digits", "class_name 敵2", "敵2", true},
		{"comment", "# class_name Player", "", false},
		{"no name", "class_name", "", false},
		{"other keyword", "extends Node", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := MatchTopLevelDeclaration(tt.line)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMatchLoadDeclaration(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		wantName string
		wantPath string
		wantOK   bool
	}{
		{"preload script", `const Foo := preload("res://foo.gd")`, "Foo", "res://foo.gd", true},
		{"preload resource", `const Bar := preload("res://bar.tres")`, "Bar", "res://bar.tres", true},
		{"load call", `const Foo := load("res://foo.gd")`, "Foo", "res://foo.gd", true},
		{"single quotes", `const Foo := preload('res://foo.gd')`, "Foo", "res://foo.gd", true},
		{"unicode name", `const Ünit := preload("res://scripts/ünit.gd")`, "Ünit", "res://scripts/ünit.gd", true},
		{"punctuation in name", `const Fo-o := preload("res://foo.gd")`, "", "", false},
		{"loose spacing", `const   Foo:=preload( "res://foo.gd" )`, "Foo", "res://foo.gd", true},
		{"trailing comment", `const Foo := preload("res://foo.gd") # keep`, "Foo", "res://foo.gd", true},
		{"indented is local scope", `	const Foo := preload("res://foo.gd")`, "", "", false},
		{"unquoted path", `const Foo := preload(FOO_PATH)`, "", "", false},
		{"empty path", `const Foo := preload("")`, "", "", false},
		{"typed const", `const Foo: Script = preload("res://foo.gd")`, "", "", false},
		{"var declaration", `var Foo := preload("res://foo.gd")`, "", "", false},
		{"unterminated", `const Foo := preload("res://foo.gd"`, "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, path, ok := MatchLoadDeclaration(tt.line)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantName, name)
			assert.Equal(t, tt.wantPath, path)
		})
	}
}
