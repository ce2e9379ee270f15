package temporal

import (
	"fmt"

	"go.temporal.io/sdk/client"

	"github.com/ThanhPhatFPT/asm-fainal-vtp-fis/internal/config"
)

func NewClient(cfg config.WorkflowConfig) (client.Client, error) {
	c, err := client.Dial(client.Options{
		HostPort:  cfg.HostPort,
		Namespace: cfg.Namespace,
	})
	if err != nil {
		return nil, fmt.Errorf("dialing temporal at %s: %w", cfg.HostPort, err)
	}
	return c, nil
}
