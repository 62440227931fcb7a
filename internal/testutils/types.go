package testutils

// TestingT covers the parts of *testing.T the helpers in this package use.
type TestingT interface {
	Helper()
	Error(args ...interface{})
	Fatal(args ...interface{})
}
