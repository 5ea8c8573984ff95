package devices

// 双温区热泵（035）在 f_zone2_select 上报 "0" 时不具备第二温区，
// 过滤阶段要把这两个属性从视图里摘掉
const (
	KeyZone2Select   = "f_zone2_select"
	KeyZone2WaterTmp = "f_zone2water_temp2"
	KeyZone2SetTemp  = "t_zone2water_settemp2"
)

// WaterHeaterSchema 双温区空气源热泵（035）模板
// 该类设备不走能力列表过滤，直接使用静态模板
func WaterHeaterSchema() Schema {
	return schemaAttrs(
		&Attribute{Key: "t_power", Name: "Power", Type: TypeEnum, ReadWrite: ReadWrite, ValueMap: powerValueMap()},
		&Attribute{Key: "t_work_mode", Name: "Work Mode", Type: TypeEnum, ReadWrite: ReadWrite,
			ValueMap: NewValueMap(
				"1", "制热 Heat",
				"2", "制冷 Cool",
				"3", "自动 Auto",
				"4", "仅生活热水 Hot Water",
			)},
		&Attribute{Key: "t_zone1water_settemp1", Name: "Zone 1 Target Temperature", Type: TypeNumber, ReadWrite: ReadWrite, Step: 1},
		&Attribute{Key: KeyZone2SetTemp, Name: "Zone 2 Target Temperature", Type: TypeNumber, ReadWrite: ReadWrite, Step: 1},
		&Attribute{Key: "f_zone1water_temp1", Name: "Zone 1 Water Temperature", Type: TypeNumber, ReadWrite: ReadOnly},
		&Attribute{Key: KeyZone2WaterTmp, Name: "Zone 2 Water Temperature", Type: TypeNumber, ReadWrite: ReadOnly},
		&Attribute{Key: KeyZone2Select, Name: "Zone 2 Available", Type: TypeEnum, ReadWrite: ReadOnly, ValueMap: switchValueMap()},
		&Attribute{Key: "f_water_tank_temp", Name: "Water Tank Temperature", Type: TypeNumber, ReadWrite: ReadOnly},
		&Attribute{Key: "t_water_settemp", Name: "Hot Water Target Temperature", Type: TypeNumber, ReadWrite: ReadWrite, Step: 1},
		&Attribute{Key: "f_in_water_temp", Name: "Inlet Water Temperature", Type: TypeNumber, ReadWrite: ReadOnly},
		&Attribute{Key: "f_out_water_temp", Name: "Outlet Water Temperature", Type: TypeNumber, ReadWrite: ReadOnly},
		&Attribute{Key: "f_power_consumption", Name: "Power Consumption", Type: TypeNumber, ReadWrite: ReadOnly, Step: 1},
		&Attribute{Key: "f_e_pump", Name: "Water Pump Fault", Type: TypeBoolean, ReadWrite: ReadOnly},
		&Attribute{Key: "f_e_high_pressure", Name: "High Pressure Fault", Type: TypeBoolean, ReadWrite: ReadOnly},
	)
}
