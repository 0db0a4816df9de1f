package testutil

import "os"

// Setenv sets an environment variable for the duration of a test, restoring
// its old value or absence afterwards. It returns value.
func Setenv(c Cleanuper, name, value string) string {
	old, existed := os.LookupEnv(name)
	c.Cleanup(func() {
		if existed {
			os.Setenv(name, old)
		} else {
			os.Unsetenv(name)
		}
	})
	os.Setenv(name, value)
	return value
}
