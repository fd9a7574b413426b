package scanner

import (
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/conneroisu/marklet/internal/registry"
)

// TestScannerCloseStopsWorkers verifies that Close terminates every worker
// goroutine in the pool.
func TestScannerCloseStopsWorkers(t *testing.T) {
	defer goleak.VerifyNone(t)

	scanner := NewComponentScanner(registry.NewComponentRegistry())
	require.NoError(t, scanner.Close())
}

// TestScannerNoLeakAfterScan verifies that a full directory scan, including
// the worker pool path and the async hash goroutine, leaves no goroutines
// behind once the scanner is closed.
func TestScannerNoLeakAfterScan(t *testing.T) {
	defer goleak.VerifyNone(t)

	t.Chdir(t.TempDir())

	reg := registry.NewComponentRegistry()
	scanner := NewComponentScanner(reg)

	require.NoError(t, os.MkdirAll("components", 0755))
	for i := 0; i < 12; i++ {
		source := fmt.Sprintf(`<!--
name: widget-%02d
-->
<template><div></div></template>`, i)
		path := fmt.Sprintf("components/widget-%02d.html", i)
		require.NoError(t, os.WriteFile(path, []byte(source), 0644))
	}

	// One oversized component to exercise the streaming read and async hash
	var big strings.Builder
	big.WriteString("<!--\nname: widget-big\n-->\n<template><ul>\n")
	for i := 0; i < 4000; i++ {
		fmt.Fprintf(&big, "  <li>row %04d</li>\n", i)
	}
	big.WriteString("</ul></template>\n")
	require.NoError(t, os.WriteFile("components/widget-big.html", []byte(big.String()), 0644))

	require.NoError(t, scanner.ScanDirectory("components"))
	require.Equal(t, 13, reg.Count())

	require.NoError(t, scanner.Close())
}

// TestScannerDoubleClose verifies that closing an already-closed scanner is
// a safe no-op.
func TestScannerDoubleClose(t *testing.T) {
	defer goleak.VerifyNone(t)

	scanner := NewComponentScanner(registry.NewComponentRegistry())
	require.NoError(t, scanner.Close())
	require.NoError(t, scanner.Close())
}
