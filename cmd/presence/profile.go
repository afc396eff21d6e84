package main

import (
	"fmt"
	"os"
	"time"

	"github.com/opd-ai/gamesdk/model"
	"gopkg.in/yaml.v3"
)

// profile is the YAML form of an activity.
type profile struct {
	State   string `yaml:"state"`
	Details string `yaml:"details"`
	// Elapsed shows a timer counting from the moment the activity is set.
	Elapsed bool `yaml:"elapsed"`
	Assets  struct {
		LargeImage string `yaml:"large_image"`
		LargeText  string `yaml:"large_text"`
		SmallImage string `yaml:"small_image"`
		SmallText  string `yaml:"small_text"`
	} `yaml:"assets"`
	Party struct {
		ID      string `yaml:"id"`
		Size    int32  `yaml:"size"`
		MaxSize int32  `yaml:"max_size"`
	} `yaml:"party"`
	Secrets struct {
		Match    string `yaml:"match"`
		Join     string `yaml:"join"`
		Spectate string `yaml:"spectate"`
	} `yaml:"secrets"`
	Instance bool `yaml:"instance"`
}

func loadProfile(path string) (*profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read activity profile: %w", err)
	}
	var p profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse activity profile %s: %w", path, err)
	}
	if p.Party.Size > p.Party.MaxSize && p.Party.MaxSize != 0 {
		return nil, fmt.Errorf("parse activity profile %s: party size %d exceeds max %d", path, p.Party.Size, p.Party.MaxSize)
	}
	return &p, nil
}

func (p *profile) activity(now time.Time) model.Activity {
	a := model.Activity{
		State:   p.State,
		Details: p.Details,
		Assets: model.ActivityAssets{
			LargeImage: p.Assets.LargeImage,
			LargeText:  p.Assets.LargeText,
			SmallImage: p.Assets.SmallImage,
			SmallText:  p.Assets.SmallText,
		},
		Party: model.ActivityParty{
			ID:   p.Party.ID,
			Size: model.PartySize{CurrentSize: p.Party.Size, MaxSize: p.Party.MaxSize},
		},
		Secrets: model.ActivitySecrets{
			Match:    p.Secrets.Match,
			Join:     p.Secrets.Join,
			Spectate: p.Secrets.Spectate,
		},
		Instance: p.Instance,
	}
	if p.Elapsed {
		a.Timestamps.Start = now.Unix()
	}
	return a
}
