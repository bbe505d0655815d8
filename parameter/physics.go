package parameter

// Shared gravity in world units per second squared, +Y points down the screen
const (
	GravityX = 0.0
	GravityY = 10.0
)

// Cloth grid
const (
	ClothCols     = 5
	ClothRows     = 5
	ClothOriginX  = 100.0
	ClothOriginY  = 40.0
	ClothSpacingX = 20.0
	ClothSpacingY = 20.0
	// ClothWorkers > 1 only matters with the jacobi solver
	ClothWorkers = 1
	ClothSolver  = "sequential"
)

// Chain
const (
	ChainCount  = 10
	ChainStartX = 150.0
	ChainStartY = 20.0
	ChainStepX  = 12.0
	ChainStepY  = 0.0
)

// Vine, gravity is zero so the pull term alone makes it hang
const (
	VineCount   = 2
	VineStartX  = 150.0
	VineStartY  = 10.0
	VineStepX   = 60.0
	VineStepY   = 80.0
	VineLift    = 0.3
	VineCSVFile = "result.csv"
)

// Mouse drag impulses
const (
	ImpulseRadius    = 20.0
	ImpulseStrength  = 1.0
	ImpulsePerSecond = 15.0
	ImpulseBurst     = 5
)

// Perlin wind
const (
	WindEnabled  = false
	WindStrength = 4.0
	WindScale    = 0.02
	WindSpeed    = 0.5
	WindSeed     = 7
	WindAlpha    = 2.0
	WindBeta     = 2.0
	WindOctaves  = 3
)

// Diamond, top and left corners pinned
const (
	DiamondCenterX = 150.0
	DiamondCenterY = 80.0
	DiamondRadius  = 40.0
)

// Curve and cube toys
const (
	CurveWidth  = 400.0
	CurveHeight = 300.0
	CubeCenterX = 200.0
	CubeCenterY = 200.0
	CubeSize    = 10.0
	CubeDepth   = 40.0
	CameraDepth = -10.0
)
