package pet

import "time"

// Face names an expression in the fixed face vocabulary.
type Face string

const (
	FaceNeutral   Face = "neutral"
	FaceBlink     Face = "blink"
	FaceHappy     Face = "happy"
	FaceWide      Face = "wide"
	FaceWeird     Face = "weird"
	FaceSick      Face = "sick"
	FaceSad       Face = "sad"
	FaceHungry    Face = "hungry"
	FaceVeryHappy Face = "very_happy"
	FaceOld       Face = "old"
	FaceSleepy    Face = "sleepy"
	FaceAsleep    Face = "asleep"
	FaceAngry     Face = "angry"
	FaceDirty     Face = "dirty"
)

var glyphs = map[Face]string{
	FaceNeutral:   "o_o",
	FaceBlink:     "-_-",
	FaceHappy:     "^_^",
	FaceWide:      "O_O",
	FaceWeird:     "o_O",
	FaceSick:      "x_x",
	FaceSad:       "u_u",
	FaceHungry:    "o.o",
	FaceVeryHappy: "OwO",
	FaceOld:       "O_o",
	FaceSleepy:    "-o-",
	FaceAsleep:    "z_z",
	FaceAngry:     ">_<",
	FaceDirty:     "._.",
}

const fallbackGlyph = "o_o"

// Valid reports whether f is in the face vocabulary.
func (f Face) Valid() bool {
	_, ok := glyphs[f]
	return ok
}

// Glyph returns the text drawn for f.
func (f Face) Glyph() string {
	if g, ok := glyphs[f]; ok {
		return g
	}
	return fallbackGlyph
}

// Faces returns every face in the vocabulary.
func Faces() []Face {
	out := make([]Face, 0, len(glyphs))
	for f := range glyphs {
		out = append(out, f)
	}
	return out
}

// Face durations.
const (
	overrideFaceDuration = 1200 * time.Millisecond
	sleepFaceDuration    = 9999999 * time.Millisecond
)

// Face returns the current face.
func (p *Pet) Face() Face { return p.face }

// Glyph returns the text for the current face.
func (p *Pet) Glyph() string { return p.face.Glyph() }

// FaceDuration returns how long the current face is held.
func (p *Pet) FaceDuration() time.Duration { return p.faceDuration }

// SetFace shows f for d. Unknown faces are ignored.
func (p *Pet) SetFace(f Face, d time.Duration) {
	p.setFace(f, d, p.clock())
}

func (p *Pet) setFace(f Face, d time.Duration, now time.Time) {
	if !f.Valid() {
		return
	}
	p.face = f
	p.faceDuration = d
	p.lastFaceChange = now
}

// chooseFace picks the next face once the current one has expired.
// Overrides are consulted first and the last non-empty answer wins;
// otherwise the mood rules apply in priority order.
func (p *Pet) chooseFace(now time.Time) {
	if f := p.runFaceOverrides(); f != "" {
		p.setFace(f, overrideFaceDuration, now)
		return
	}

	switch {
	case p.state == StateAsleep:
		p.setFace(FaceAsleep, 500*time.Millisecond, now)
	case p.vitals.Happiness < 25:
		p.setFace(FaceSad, 1200*time.Millisecond, now)
	case p.vitals.Hunger > 75:
		p.setFace(FaceHungry, 1500*time.Millisecond, now)
	case p.vitals.Cleanliness < 25:
		p.setFace(FaceDirty, 1500*time.Millisecond, now)
	case p.rng.Bits(3) == 0:
		p.setFace(FaceBlink, 150*time.Millisecond, now)
	case p.rng.Bits(4) == 0:
		p.setFace(FaceWide, 600*time.Millisecond, now)
	case p.rng.Bits(5) == 0:
		p.setFace(FaceHappy, 400*time.Millisecond, now)
	default:
		p.setFace(FaceNeutral, 1200*time.Millisecond, now)
	}
}
