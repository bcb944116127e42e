package commands

// PublishCmd builds the site with the production profile. It is the
// local half of github: same output, no push.
type PublishCmd struct {
	Drafts bool `help:"Include draft posts (rarely what you want for a publish build)"`
}

func (p *PublishCmd) Run(_ *Global, root *CLI) error {
	settings, err := loadSettings(root.Settings, true)
	if err != nil {
		return err
	}
	return runBuild(settings, p.Drafts)
}
