// Package avatar is a real-time 2D avatar display built on [Ebitengine].
//
// The avatar is a set of pre-drawn PNG images indexed by pose and
// expression. The package loads them lazily, uploads them to GPU textures
// per render surface, plays a short jump animation when the pose changes,
// and blinks at randomized intervals.
//
// # Quick start
//
//	cfg, err := avatar.LoadConfig("avatar.yaml")
//	if err != nil {
//		log.Fatal(err)
//	}
//	app, err := avatar.NewApp(cfg, avatar.AppOptions{})
//	if err != nil {
//		log.Fatal(err)
//	}
//	avatar.Run(app, avatar.RunConfig{Title: "Avatar"})
//
// # Images
//
// [ImageStore] reads "<pose>-<expression>.png" files through an
// [ImageLoader] and keeps decoded images in memory. Failed loads are not
// remembered. [TextureCache] turns store images into textures, keyed by
// image and [RenderSurface] identity; [TextureCache.ClearSurface] releases
// everything a surface owns before the surface goes away.
//
// # Animation
//
// [Synthesizer] renders pose transitions onto a chroma-key canvas: the
// source pose rises and falls along a half sine and switches to the
// destination pose at the apex. Frame sets are memoized per ordered pose
// pair. [Driver] is the animation state machine (idle, pose transition,
// blink) and [BlinkScheduler] decides when blinks are due.
//
// # Display
//
// [Presenter] draws the control panel and the virtual-camera output side by
// side. The output surface can be closed and reopened at runtime; each
// reopen gets a new identity and a cold texture cache.
//
// Verbose logging uses glog: -v=1 logs state changes, -v=2 periodic cache
// statistics.
//
// [Ebitengine]: https://ebitengine.org
package avatar
