// Package modelio reads and writes core.Model values in the COBRA JSON schema
// and its YAML rendering. LoadFile and SaveFile pick the encoding from the
// file extension (.json, .yaml, .yml).
//
// SPDX-License-Identifier: MIT
package modelio
