package testutil

import "testing"

// Given, When, Then and And run scenario steps as subtests. Steps after a
// failed one are skipped because they depend on its state.
func Given(t *testing.T, desc string, fn func(t *testing.T)) bool {
	t.Helper()
	return step(t, "Given "+desc, fn)
}

func When(t *testing.T, desc string, fn func(t *testing.T)) bool {
	t.Helper()
	return step(t, "When "+desc, fn)
}

func Then(t *testing.T, desc string, fn func(t *testing.T)) bool {
	t.Helper()
	return step(t, "Then "+desc, fn)
}

func And(t *testing.T, desc string, fn func(t *testing.T)) bool {
	t.Helper()
	return step(t, "And "+desc, fn)
}

func step(t *testing.T, name string, fn func(t *testing.T)) bool {
	t.Helper()
	if t.Failed() {
		return t.Run(name, func(t *testing.T) {
			t.Skip("skipped after an earlier step failed")
		})
	}
	return t.Run(name, fn)
}
