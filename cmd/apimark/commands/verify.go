package commands

import (
	"fmt"

	"git.home.luguber.info/inful/apimark/internal/config"
	apimarkerrors "git.home.luguber.info/inful/apimark/internal/errors"
	"git.home.luguber.info/inful/apimark/internal/linkcheck"
)

// VerifyCmd implements the 'verify' command.
type VerifyCmd struct {
	Dir string `arg:"" optional:"" help:"Tree to verify (defaults to the configured output directory)"`
}

func (v *VerifyCmd) Run(_ *Global, root *CLI) error {
	dir := v.Dir
	if dir == "" {
		cfg, err := config.Load(root.Config)
		if err != nil {
			return err
		}
		dir = cfg.OutputPath
	}

	broken, err := linkcheck.VerifyTree(dir)
	if err != nil {
		return apimarkerrors.Wrap(err, apimarkerrors.CategoryFileSystem, apimarkerrors.SeverityFatal,
			fmt.Sprintf("cannot verify %s", dir))
	}

	if len(broken) == 0 {
		fmt.Printf("All relative links in %s resolve\n", dir)
		return nil
	}
	for _, bl := range broken {
		fmt.Printf("%s: broken link %s\n", bl.File, bl.Destination)
	}
	return apimarkerrors.New(apimarkerrors.CategoryValidation, apimarkerrors.SeverityError,
		fmt.Sprintf("%d broken links found under %s", len(broken), dir))
}
