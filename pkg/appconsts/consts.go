// Copyright 2025 Author(s) of Upshare
// SPDX-License-Identifier: Apache-2.0

package appconsts

const (
	// Name is the name of the Upshare server, used in help messages and
	// other user-facing output.
	Name = "upshare"
)

// Version is the version of the Upshare server. It is a variable so it can
// be set at build time using ldflags; "dev" is the local development default.
var Version = "dev"
