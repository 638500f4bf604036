//go:build noxlsx

package extract

func newXLSXReader() Reader { return nil }
