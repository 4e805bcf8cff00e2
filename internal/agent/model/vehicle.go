package model

// Vehicle is one catalog entry. Field set follows the showroom dataset
// (company, car name, engine, capacity, power, top speed, 0-100, price, fuel, seats, torque).
type Vehicle struct {
	ID            string  `json:"id" yaml:"id"`
	Brand         string  `json:"brand" yaml:"brand"`
	Model         string  `json:"model" yaml:"model"`
	Body          string  `json:"body" yaml:"body"`
	Engine        string  `json:"engine" yaml:"engine"`
	Capacity      string  `json:"capacity" yaml:"capacity"`
	HorsePower    int     `json:"horsepower" yaml:"horsepower"`
	TopSpeedKMH   int     `json:"top_speed_kmh" yaml:"top_speed_kmh"`
	ZeroToHundred float64 `json:"zero_to_hundred_s" yaml:"zero_to_hundred_s"`
	PriceUSD      float64 `json:"price_usd" yaml:"price_usd"`
	Fuel          string  `json:"fuel" yaml:"fuel"`
	Seats         int     `json:"seats" yaml:"seats"`
	TorqueNM      int     `json:"torque_nm" yaml:"torque_nm"`
	Transmission  string  `json:"transmission" yaml:"transmission"`
}
