package model

import (
	"fmt"
	"strings"
)

// Channel is a sales channel. Keep these values stable; they appear in
// scenario keys, line names and CSV output.
type Channel string

const (
	ChannelDTC         Channel = "DTC"
	ChannelB2B         Channel = "B2B"
	ChannelMarketplace Channel = "Marketplace"
	// ChannelTikTok only carries a CoGS rate; it has no P&L lines.
	ChannelTikTok Channel = "TikTok"
)

// Channels is the fixed channel order of every statement.
var Channels = []Channel{ChannelDTC, ChannelB2B, ChannelMarketplace}

func ParseChannel(s string) (Channel, error) {
	for _, c := range []Channel{ChannelDTC, ChannelB2B, ChannelMarketplace, ChannelTikTok} {
		if strings.EqualFold(strings.TrimSpace(s), string(c)) {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown channel %q", s)
}
