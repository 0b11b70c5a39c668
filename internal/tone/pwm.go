package tone

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// DefaultSysfsRoot is where the kernel exposes PWM controllers.
const DefaultSysfsRoot = "/sys/class/pwm"

// PWM drives a buzzer from a sysfs PWM channel. Frequency sets the period;
// amplitude sets the duty cycle as a fraction of FullScale.
// Not safe for concurrent use; the peripheral loop is the only writer.
type PWM struct {
	dir      string
	periodNs int64
	dutyNs   int64
	level    int
	enabled  bool
}

// OpenPWM exports (if needed) and opens channel on pwmchip<chip> under root.
func OpenPWM(root string, chip, channel int) (*PWM, error) {
	chipDir := filepath.Join(root, fmt.Sprintf("pwmchip%d", chip))
	dir := filepath.Join(chipDir, fmt.Sprintf("pwm%d", channel))

	if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
		if err := writeAttr(chipDir, "export", strconv.Itoa(channel)); err != nil {
			return nil, fmt.Errorf("export pwm channel %d: %w", channel, err)
		}
		if _, err := os.Stat(dir); err != nil {
			return nil, fmt.Errorf("pwm channel %d not available after export: %w", channel, err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("stat pwm channel: %w", err)
	}

	p := &PWM{dir: dir}
	if err := p.disable(); err != nil {
		return nil, err
	}
	return p, nil
}

// SetFrequency sets the PWM period to 1/hz. Zero or negative disables output.
func (p *PWM) SetFrequency(hz int) error {
	if hz <= 0 {
		p.periodNs = 0
		return p.disable()
	}

	period := int64(1_000_000_000 / hz)
	if period == p.periodNs && p.enabled {
		return nil
	}

	// duty must never exceed period, so drop it before changing the period
	if err := p.writeDuty(0); err != nil {
		return err
	}
	if err := writeAttr(p.dir, "period", strconv.FormatInt(period, 10)); err != nil {
		return fmt.Errorf("set pwm period: %w", err)
	}
	p.periodNs = period

	if err := p.writeDuty(p.dutyFor(p.level)); err != nil {
		return err
	}
	if !p.enabled {
		if err := writeAttr(p.dir, "enable", "1"); err != nil {
			return fmt.Errorf("enable pwm: %w", err)
		}
		p.enabled = true
	}
	return nil
}

// SetAmplitude sets the duty cycle. The level is remembered while the
// output is disabled and applied on the next SetFrequency.
func (p *PWM) SetAmplitude(level int) error {
	p.level = clampLevel(level)
	if p.periodNs == 0 {
		return nil
	}
	return p.writeDuty(p.dutyFor(p.level))
}

// Close silences and disables the channel.
func (p *PWM) Close() error {
	p.level = 0
	return p.disable()
}

func (p *PWM) dutyFor(level int) int64 {
	return p.periodNs * int64(level) / FullScale
}

func (p *PWM) writeDuty(duty int64) error {
	if duty == p.dutyNs {
		return nil
	}
	if err := writeAttr(p.dir, "duty_cycle", strconv.FormatInt(duty, 10)); err != nil {
		return fmt.Errorf("set pwm duty: %w", err)
	}
	p.dutyNs = duty
	return nil
}

func (p *PWM) disable() error {
	var errs []error
	if err := writeAttr(p.dir, "duty_cycle", "0"); err != nil {
		errs = append(errs, fmt.Errorf("clear pwm duty: %w", err))
	}
	p.dutyNs = 0
	if err := writeAttr(p.dir, "enable", "0"); err != nil {
		errs = append(errs, fmt.Errorf("disable pwm: %w", err))
	}
	p.enabled = false
	return errors.Join(errs...)
}

func writeAttr(dir, name, value string) error {
	return os.WriteFile(filepath.Join(dir, name), []byte(value), 0o644)
}
