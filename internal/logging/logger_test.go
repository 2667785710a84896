package logging

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestGetLevel(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, GetLevel("DEBUG"))
	assert.Equal(t, logrus.WarnLevel, GetLevel("warning"))
	assert.Equal(t, logrus.ErrorLevel, GetLevel("error"))
	assert.Equal(t, logrus.InfoLevel, GetLevel(""))
	assert.Equal(t, logrus.InfoLevel, GetLevel("verbose"))
}

func TestSetup(t *testing.T) {
	defer logrus.SetFormatter(&logrus.TextFormatter{})
	defer logrus.SetLevel(logrus.InfoLevel)

	Setup(SetupParams{LogLevel: "debug", LogFormatJSON: true})
	assert.Equal(t, logrus.DebugLevel, logrus.GetLevel())
	_, isJSON := logrus.StandardLogger().Formatter.(*logrus.JSONFormatter)
	assert.True(t, isJSON)
}
