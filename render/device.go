// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"github.com/gogpu/gpucontext"
)

// DeviceHandle provides GPU device access from the host application.
//
// The host window framework (e.g. gogpu.App) implements DeviceHandle
// and passes it to the viewer at startup, so the viewer shares the
// host's GPU device instead of creating its own.
//
// DeviceHandle is an alias for gpucontext.DeviceProvider, keeping the
// package compatible with the gpucontext ecosystem while giving the
// integration point a local name.
type DeviceHandle = gpucontext.DeviceProvider
