//go:build mage

package main

import "github.com/magefile/mage/sh"

// Convert runs `pukimd convert` on ./wiki, using ./pukimd.yaml when
// present.
func Convert() error {
	return sh.RunV("go", "run", "./cmd/pukimd", "convert")
}

// Watch runs `pukimd watch --watch` on ./wiki until interrupted.
func Watch() error {
	return sh.RunV("go", "run", "./cmd/pukimd", "watch", "--watch")
}
