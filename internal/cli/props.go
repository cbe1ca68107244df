package cli

import (
	"fmt"

	"github.com/craftctl-project/craftctl/internal/config"
)

// PropsGet prints the value of one server.properties key.
func (a *App) PropsGet(file, key string) error {
	props, err := config.LoadProperties(a.projectPath(file))
	if err != nil {
		return err
	}

	value, ok := props.Get(key)
	if !ok {
		return fmt.Errorf("key %q not found in %s", key, file)
	}
	fmt.Println(value)
	return nil
}

// PropsSet updates one server.properties key in place, preserving the file
// layout. The change takes effect on the next server start.
func (a *App) PropsSet(file, key, value string) error {
	props, err := config.LoadProperties(a.projectPath(file))
	if err != nil {
		return err
	}

	props.Set(key, value)
	if err := props.Save(); err != nil {
		return err
	}
	fmt.Printf("%s = %s\n", key, value)
	return nil
}
