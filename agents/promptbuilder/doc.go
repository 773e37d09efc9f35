/*
Copyright 2026 The Investigator Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package promptbuilder provides prompt templates with explicit, checked
// placeholder bindings.
//
// A template declares placeholders as {{name}}. Every placeholder must be
// bound before Build succeeds, and a name can only be bound once. This keeps
// request data out of the template text itself and makes it impossible to
// ship a prompt with a forgotten hole in it.
package promptbuilder
