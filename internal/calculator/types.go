package calculator

// LimitingFactor names the constraint that determined the loadable unit count.
type LimitingFactor string

const (
	LimitingSpace  LimitingFactor = "space"
	LimitingWeight LimitingFactor = "weight"
)

// ContainerProfile describes the usable interior of a shipping container.
// Dimensions are in centimetres, MaxWeight in kilograms.
//
// VolumeCubicMeters is the nominal volume published for the container. It is
// usually smaller than InnerLength*InnerWidth*InnerHeight/1e6 because of
// internal bracing, and utilisation percentages are computed against it.
type ContainerProfile struct {
	ID                string  `json:"id" yaml:"id"`
	Name              string  `json:"name" yaml:"name"`
	InnerLength       float64 `json:"innerLength" yaml:"inner_length"`
	InnerWidth        float64 `json:"innerWidth" yaml:"inner_width"`
	InnerHeight       float64 `json:"innerHeight" yaml:"inner_height"`
	MaxWeight         float64 `json:"maxWeight" yaml:"max_weight"`
	VolumeCubicMeters float64 `json:"volumeCubicMeters" yaml:"volume_cubic_meters"`
}

// PackageSpec describes a single package. Non-stackable packages are loaded
// in one layer only.
type PackageSpec struct {
	Length    float64 `json:"length"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	Weight    float64 `json:"weight"`
	Stackable bool    `json:"stackable"`
}

// LoadResult summarises how many packages fit into a container.
type LoadResult struct {
	CapacityUnits        int            `json:"capacityUnits"`
	LimitingFactor       LimitingFactor `json:"limitingFactor"`
	UnitsAlongLength     int            `json:"unitsAlongLength"`
	UnitsAlongWidth      int            `json:"unitsAlongWidth"`
	UnitsAlongHeight     int            `json:"unitsAlongHeight"`
	UnitsBySpace         int            `json:"unitsBySpace"`
	UnitsByWeight        int            `json:"unitsByWeight"`
	PackageVolumeM3      float64        `json:"packageVolumeM3"`
	TotalVolumeM3        float64        `json:"totalVolumeM3"`
	TotalWeightKg        float64        `json:"totalWeightKg"`
	VolumeUtilizationPct float64        `json:"volumeUtilizationPct"`
	WeightUtilizationPct float64        `json:"weightUtilizationPct"`
}

// ShipmentPlan describes how many containers a required quantity occupies.
type ShipmentPlan struct {
	Quantity             int        `json:"quantity"`
	ContainersRequired   int        `json:"containersRequired"`
	UnitsInLastContainer int        `json:"unitsInLastContainer"`
	PerContainer         LoadResult `json:"perContainer"`
}

// Calculator describes the behaviour required from a container load calculator.
type Calculator interface {
	CalculateLoad(profile ContainerProfile, spec PackageSpec) (LoadResult, error)
	PlanShipment(profile ContainerProfile, spec PackageSpec, quantity int) (ShipmentPlan, error)
}
