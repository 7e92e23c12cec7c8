package generation

import (
	"context"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/PhoneSim/backend/internal/infrastructure/logging"
)

// Fallback tries Primary and answers from Secondary when it fails
type Fallback struct {
	Primary   Generator
	Secondary Generator
	log       *logging.Logger
}

// NewFallback wraps primary with secondary
func NewFallback(primary, secondary Generator, logger *logging.Logger) *Fallback {
	return &Fallback{
		Primary:   primary,
		Secondary: secondary,
		log:       logger.Named("generation"),
	}
}

// GenerateReply implements Generator
func (f *Fallback) GenerateReply(ctx context.Context, topic string, persona Persona) (string, error) {
	reply, err := f.Primary.GenerateReply(ctx, topic, persona)
	if err == nil || ctx.Err() != nil {
		return reply, err
	}
	f.log.Warn("Primary reply generation failed, using fallback", zap.Error(err))
	return f.Secondary.GenerateReply(ctx, topic, persona)
}

// GenerateImage implements Generator
func (f *Fallback) GenerateImage(ctx context.Context, prompt string) (string, error) {
	ref, err := f.Primary.GenerateImage(ctx, prompt)
	if err == nil || ctx.Err() != nil {
		return ref, err
	}
	f.log.Warn("Primary image generation failed, using fallback", zap.Error(err))
	return f.Secondary.GenerateImage(ctx, prompt)
}
