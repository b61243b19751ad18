package config

func overloadUserConfigDir(dir string) func() {
	ref := userConfigDir
	userConfigDir = func() (string, error) { return dir, nil }
	return func() { userConfigDir = ref }
}
