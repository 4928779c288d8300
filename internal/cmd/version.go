package cmd

import (
	"fmt"

	"github.com/Alia5/routegen/internal/codegen/common"
)

type Version struct {
	Short bool `help:"Print major.minor.patch only, without pre-release or build suffix"`
}

// Run is called by Kong when the version command is executed.
func (v *Version) Run() error {
	version, err := common.BuildVersion()
	if err != nil {
		return err
	}
	if v.Short {
		major, minor, patch := common.Release(version)
		fmt.Printf("%d.%d.%d\n", major, minor, patch)
		return nil
	}
	fmt.Println("routegen " + version)
	return nil
}
