package endpoints

import (
	"fmt"
	"strings"

	"github.com/doodlesbykumbi/zealot-in-go/pkg/model"
	"github.com/doodlesbykumbi/zealot-in-go/pkg/server/store"
)

// channelValue maps the platform choice of the app form to channel labels.
func channelValue(platform string) []string {
	switch platform {
	case "ios":
		return []string{"iOS"}
	case "android":
		return []string{"Android"}
	case "both":
		return []string{"Android", "iOS"}
	}
	return nil
}

// createSchemesBy creates a scheme for every non-blank submitted name and,
// under each, one channel per label of the chosen platform. Created
// records are appended to app.Schemes.
func createSchemesBy(apps store.AppsStore, app *model.App, schemes *SchemesAttributes, channel string) error {
	if schemes == nil {
		return nil
	}

	labels := channelValue(channel)
	for _, schemeName := range schemes.Name {
		if strings.TrimSpace(schemeName) == "" {
			continue
		}

		scheme, err := apps.CreateScheme(app.ID, schemeName)
		if err != nil {
			return fmt.Errorf("failed to create scheme %q: %w", schemeName, err)
		}

		for _, label := range labels {
			deviceType, err := model.DeviceTypeFromLabel(label)
			if err != nil {
				return err
			}
			created, err := apps.CreateChannel(scheme.ID, label, deviceType)
			if err != nil {
				return fmt.Errorf("failed to create channel %s of scheme %q: %w", label, schemeName, err)
			}
			scheme.Channels = append(scheme.Channels, *created)
		}

		app.Schemes = append(app.Schemes, *scheme)
	}
	return nil
}
