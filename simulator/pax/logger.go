package pax

import "github.com/sirupsen/logrus"

var log = logrus.WithField("module", "pax")
