package ui

import "time"

// LayoutCompactWidth is the width below which the header drops secondary details.
const LayoutCompactWidth = 100

// DefaultUIInterval is how often the UI reads the latest poll snapshot.
const DefaultUIInterval = time.Second
