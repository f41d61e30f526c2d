package providers

import (
	"os/exec"

	"github.com/samber/do/v2"

	"github.com/hearthmedia/hearth/internal/config"
	"github.com/hearthmedia/hearth/internal/logger"
	"github.com/hearthmedia/hearth/internal/probe"
)

// ProvideProber provides the metadata extraction chain: ffprobe when
// available, then native tag reading, then content sniffing.
func ProvideProber(i do.Injector) (probe.Prober, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	var probers []probe.Prober

	binary := cfg.Probe.FFprobePath
	if binary == "" {
		if found, err := exec.LookPath("ffprobe"); err == nil {
			binary = found
		}
	}
	if binary != "" {
		probers = append(probers, probe.NewFFprobe(binary))
		log.Info("ffprobe enabled", "binary", binary)
	} else {
		log.Warn("ffprobe not found, video dimensions and durations will be limited")
	}

	probers = append(probers, probe.NewNative(log.Logger), probe.Sniffer{})

	return probe.NewChain(log.Logger, probers...), nil
}
