package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spacebaboon/gibbering-mouther/internal/logger"
	"github.com/spacebaboon/gibbering-mouther/pkg/gibber"
)

const consoleHelp = `commands:
  record [seconds]   capture a sample from the microphone (default 3s)
  load <file.wav>    use a WAV file as the sample instead
  play               start continuous looping playback
  gibber             play the timed effect once
  stop               silence playback
  render [file.wav]  render the effect offline to a WAV file
  set <key> <value>  change an effect parameter (see 'show')
  show               print the current effect parameters
  quit               exit`

// runConsole is the thin interactive surface over the session: it owns the
// live configuration and the status text, nothing more.
func runConsole(session *gibber.Session, log *logger.Logger) error {
	fmt.Println(consoleHelp)
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		arg := ""
		if len(fields) > 1 {
			arg = fields[1]
		}

		switch fields[0] {
		case "record":
			seconds := 3.0
			if arg != "" {
				if v, err := strconv.ParseFloat(arg, 64); err == nil && v > 0 {
					seconds = v
				}
			}
			d := time.Duration(seconds * float64(time.Second))
			if err := session.Record(context.Background(), d); err != nil {
				log.Errorf("recording failed: %v", err)
			}

		case "load":
			if arg == "" {
				fmt.Println("usage: load <file.wav>")
				continue
			}
			if err := session.LoadSample(arg); err != nil {
				log.Errorf("load failed: %v", err)
			}

		case "play":
			if err := session.PlayContinuous(); err != nil {
				log.Errorf("play failed: %v", err)
			}

		case "gibber":
			if err := session.PlayTimed(); err != nil {
				log.Errorf("play failed: %v", err)
			}

		case "stop":
			session.Stop()

		case "render":
			if err := session.RenderToFile(context.Background(), arg); err != nil {
				log.Errorf("render failed: %v", err)
			}

		case "set":
			if len(fields) < 3 {
				fmt.Println("usage: set <key> <value>")
				continue
			}
			if err := setParam(session, fields[1], fields[2]); err != nil {
				log.Errorf("set failed: %v", err)
			}

		case "show":
			showParams(session)

		case "help":
			fmt.Println(consoleHelp)

		case "quit", "exit":
			return nil

		default:
			fmt.Printf("unknown command %q (try 'help')\n", fields[0])
		}
	}
}

// setParam mutates one effect parameter, rejecting values that would leave
// the configuration invalid. The change only affects the next play or render.
func setParam(session *gibber.Session, key, value string) error {
	effect := &session.Config().Effect
	updated := *effect

	switch key {
	case "voices":
		v, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		updated.VoiceCount = v
	case "pitch-min":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		updated.PitchMin = v
	case "pitch-max":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		updated.PitchMax = v
	case "stagger":
		v, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		updated.StaggerMaxMs = v
	case "gain-min":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		updated.GainMin = v
	case "gain-max":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		updated.GainMax = v
	case "duration":
		v, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		updated.EffectDurationMs = v
	case "wet":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		updated.ReverbWetMix = v
	case "loop-prob":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		updated.LoopProbability = v
	default:
		return fmt.Errorf("unknown parameter %q", key)
	}

	if err := updated.Validate(); err != nil {
		return err
	}
	*effect = updated
	return nil
}

func showParams(session *gibber.Session) {
	e := session.Config().Effect
	fmt.Printf("voices      %d\n", e.VoiceCount)
	fmt.Printf("pitch-min   %.2f\n", e.PitchMin)
	fmt.Printf("pitch-max   %.2f\n", e.PitchMax)
	fmt.Printf("stagger     %dms\n", e.StaggerMaxMs)
	fmt.Printf("gain-min    %.2f\n", e.GainMin)
	fmt.Printf("gain-max    %.2f\n", e.GainMax)
	fmt.Printf("duration    %dms\n", e.EffectDurationMs)
	fmt.Printf("wet         %.2f\n", e.ReverbWetMix)
	fmt.Printf("loop-prob   %.2f\n", e.LoopProbability)
	if session.HasRecording() {
		b := session.Recorded()
		fmt.Printf("sample      %dHz, %dch, %v\n", b.SampleRate, b.NumChannels(), b.Duration().Round(time.Millisecond))
	} else {
		fmt.Println("sample      (none recorded)")
	}
}
