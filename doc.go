// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package pipecache builds and caches WebGPU render pipelines from WGSL
// shaders.
//
// A shader is loaded once: it is parsed and validated by naga, its resource
// bindings and color outputs are reflected, and its pipeline layout and
// shader module are created on the device. Pipelines are then requested per
// (shader, requirements) pair and built only on the first request.
//
// # Quick Start
//
//	r, err := pipecache.NewRenderer(device)
//	if err != nil {
//	    return err
//	}
//	defer r.Close()
//
//	key, err := r.LoadShader("sprite", spriteWGSL)
//	if err != nil {
//	    return err
//	}
//
//	req := pipeline.NewRequirements(pipeline.TopologyTriangles,
//	    pipeline.Target(gputypes.TextureFormatBGRA8Unorm, pipeline.BlendPremultiplied))
//	p, err := r.Pipeline(key, req)
//	if err != nil {
//	    return err
//	}
//	defer p.Release()
//
// # Packages
//
//   - shader: parse, validate and reflect WGSL (device independent)
//   - layout: bind group and pipeline layouts from reflected bindings
//   - registry: loaded shaders addressed by generational keys
//   - pipeline: requirements, the pipeline cache and eviction policies
//
// # Host Integration
//
// NewRendererFromProvider uses the device of a gpucontext.DeviceProvider,
// so pipelines can be built on the same device a host application renders
// with.
//
// # Logging
//
// Nothing is logged by default. See SetLogger.
package pipecache
