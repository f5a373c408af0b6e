package core

import (
	"context"
	"fmt"
)

type Message struct {
	Finished bool
	Message  string
	Err      error
}

type ChannelProvider struct {
	Logs   chan Message
	Cancel context.CancelFunc
}

func MakeDefaultChannelProvider() *ChannelProvider {
	return &ChannelProvider{
		Logs:   make(chan Message, 100),
		Cancel: nil,
	}
}

func LogMessage(logs chan Message, format string, msg ...any) {
	logs <- Message{
		Message: fmt.Sprintf(format, msg...),
	}
}

// ConsoleLogger drains progress messages to stdout until a Finished
// message arrives.
func ConsoleLogger(input chan Message) {
	for {
		result := <-input
		if result.Finished {
			break
		}

		if result.Err != nil {
			fmt.Println(result.Err)
			if ErrorLogger != nil {
				ErrorLogger.Println(result.Err)
			}
		} else {
			fmt.Println(result.Message)
			if InfoLogger != nil {
				InfoLogger.Println(result.Message)
			}
		}
	}
}
