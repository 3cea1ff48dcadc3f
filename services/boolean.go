package services

import "playbox/games"

// FlexBool is the boundary boolean shared with the document layer: request
// flags and document flags normalize heterogeneous client encodings the same
// way.
type FlexBool = games.FlexBool
