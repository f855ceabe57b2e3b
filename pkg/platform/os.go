// SPDX-License-Identifier: MPL-2.0

package platform

// GOOS values checked by dpzip.
const (
	Windows = "windows"
	Darwin  = "darwin"
	Linux   = "linux"
)
