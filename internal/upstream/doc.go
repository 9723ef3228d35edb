// Package upstream implements the client for the external position feed.
//
// The feed (Open Notify style) answers an unauthenticated GET with:
//
//	{
//	  "timestamp": 1712345678,
//	  "message": "success",
//	  "iss_position": {"latitude": "12.3456", "longitude": "-45.6789"}
//	}
//
// The client fetches one reading, checks the payload against that schema,
// and normalizes it into a model.PositionRecord. A reading that fails the
// schema check never reaches the store.
package upstream
