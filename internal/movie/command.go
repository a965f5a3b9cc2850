package movie

import (
	"errors"
	"strings"
)

// Command names understood by the validator. Any other name passes through.
const (
	CommandSplit     = "split"
	CommandBitrate   = "bitrate"
	CommandSubtitles = "subtitles"
	CommandDownload  = "download"
)

// Command is one parsed bot command. It is never mutated after parsing.
type Command struct {
	Name      string   `json:"name"`
	Params    []string `json:"params,omitempty"`
	SenderID  int64    `json:"sender_id,omitempty"`
	MessageID int64    `json:"message_id,omitempty"`
}

// ParseCommand builds a Command from a "/name p1 p2" line. The leading slash
// and any "@botname" suffix are optional.
func ParseCommand(text string) (Command, error) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return Command{}, errors.New("empty command")
	}
	name := strings.TrimPrefix(fields[0], "/")
	if at := strings.IndexByte(name, '@'); at >= 0 {
		name = name[:at]
	}
	name = strings.ToLower(name)
	if name == "" {
		return Command{}, errors.New("empty command name")
	}
	cmd := Command{Name: name}
	if len(fields) > 1 {
		cmd.Params = append([]string(nil), fields[1:]...)
	}
	return cmd, nil
}

// String renders the command back in "/name p1 p2" form.
func (c Command) String() string {
	if len(c.Params) == 0 {
		return "/" + c.Name
	}
	return "/" + c.Name + " " + strings.Join(c.Params, " ")
}
