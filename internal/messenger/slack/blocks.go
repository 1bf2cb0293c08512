package slack

import (
	slacklib "github.com/slack-go/slack"

	"github.com/gosuda/attendance/internal/messenger"
)

// BuildFieldBlocks renders a headline section followed by a two-column
// section of labelled fields. Empty field lists produce only the headline.
func BuildFieldBlocks(headline string, fields []messenger.Field) []slacklib.Block {
	head := slacklib.NewSectionBlock(
		slacklib.NewTextBlockObject(slacklib.MarkdownType, "*"+headline+"*", false, false),
		nil,
		nil,
	)

	if len(fields) == 0 {
		return []slacklib.Block{head}
	}

	objs := make([]*slacklib.TextBlockObject, 0, len(fields))
	for _, f := range fields {
		objs = append(objs, slacklib.NewTextBlockObject(slacklib.MarkdownType, "*"+f.Label+":*\n"+f.Value, false, false))
	}

	return []slacklib.Block{head, slacklib.NewSectionBlock(nil, objs, nil)}
}
