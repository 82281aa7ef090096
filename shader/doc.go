// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package shader loads WGSL modules and derives what a render pipeline needs
// to know about them.
//
// Load runs the naga front end (parse, lower, validate) and checks the result
// against the device's declared Capabilities. The returned Module is
// immutable and device independent.
//
// Reflect lists the resources a module binds, grouped by @group and ordered
// by declaration, with the stages that reach each resource:
//
//	m, err := shader.Load(src, shader.DefaultCapabilities())
//	if err != nil {
//		return err
//	}
//	groups, err := shader.Reflect(m)
//
// CountColorOutputs reports how many color attachments the fragment stage
// writes.
package shader
