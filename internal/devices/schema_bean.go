package devices

// bean 类设备（分体空调/窗式空调/移动空调）的属性模板。
// 属性键沿用厂商词汇：t_* 为可下发的目标值，f_* 为只读反馈值。
// 值映射的描述是云端下发的中英双语文本，模式归一化依赖这些描述。

func workModeValueMap() *ValueMap {
	return NewValueMap(
		"0", "送风 Fan",
		"1", "制热 Heat",
		"2", "制冷 Cool",
		"3", "除湿 Dry",
		"4", "自动 Auto",
	)
}

func fanSpeedValueMap() *ValueMap {
	return NewValueMap(
		"0", "自动",
		"5", "超低",
		"6", "低",
		"7", "中",
		"8", "高",
		"9", "超高",
	)
}

func powerValueMap() *ValueMap {
	return NewValueMap(
		"0", "关 Off",
		"1", "开 On",
	)
}

func switchValueMap() *ValueMap {
	return NewValueMap(
		"0", "关闭",
		"1", "开启",
	)
}

// SplitACSchema 分体空调（009）模板
func SplitACSchema() Schema {
	return schemaAttrs(
		&Attribute{Key: "t_power", Name: "Power", Type: TypeEnum, ReadWrite: ReadWrite, ValueMap: powerValueMap()},
		&Attribute{Key: "t_work_mode", Name: "Work Mode", Type: TypeEnum, ReadWrite: ReadWrite, ValueMap: workModeValueMap()},
		&Attribute{Key: "t_fan_speed", Name: "Fan Speed", Type: TypeEnum, ReadWrite: ReadWrite, ValueMap: fanSpeedValueMap()},
		&Attribute{Key: "t_temp", Name: "Target Temperature", Type: TypeNumber, ReadWrite: ReadWrite, Step: 1},
		&Attribute{Key: "t_temp_type", Name: "Temperature Unit", Type: TypeEnum, ReadWrite: ReadWrite,
			ValueMap: NewValueMap("0", "摄氏 Celsius", "1", "华氏 Fahrenheit")},
		&Attribute{Key: "t_up_down", Name: "Vertical Swing", Type: TypeEnum, ReadWrite: ReadWrite, ValueMap: switchValueMap()},
		&Attribute{Key: "t_swing_angle", Name: "Swing Angle", Type: TypeNumber, ReadWrite: ReadWrite, Step: 1},
		&Attribute{Key: "t_eco", Name: "ECO Mode", Type: TypeBoolean, ReadWrite: ReadWrite},
		&Attribute{Key: "t_super", Name: "Rapid Mode", Type: TypeBoolean, ReadWrite: ReadWrite},
		&Attribute{Key: "t_sleep", Name: "Sleep Mode", Type: TypeEnum, ReadWrite: ReadWrite,
			ValueMap: NewValueMap("0", "关闭", "1", "睡眠1", "2", "睡眠2", "3", "睡眠3", "4", "睡眠4")},
		&Attribute{Key: "t_quiet", Name: "Quiet Mode", Type: TypeBoolean, ReadWrite: ReadWrite},
		&Attribute{Key: "t_8heat", Name: "8C Heating", Type: TypeBoolean, ReadWrite: ReadWrite},
		&Attribute{Key: "f_temp_in", Name: "Indoor Temperature", Type: TypeNumber, ReadWrite: ReadOnly},
		&Attribute{Key: "f_humidity", Name: "Indoor Humidity", Type: TypeNumber, ReadWrite: ReadOnly},
		&Attribute{Key: "f_power_display", Name: "Power Display", Type: TypeNumber, ReadWrite: ReadOnly},
		&Attribute{Key: "f_cool_qvalue", Name: "Cooling Capacity", Type: TypeNumber, ReadWrite: ReadOnly},
		&Attribute{Key: "f_heat_qvalue", Name: "Heating Capacity", Type: TypeNumber, ReadWrite: ReadOnly},
		&Attribute{Key: "f_power_consumption", Name: "Power Consumption", Type: TypeNumber, ReadWrite: ReadOnly, Step: 1},
		&Attribute{Key: "f_e_intemp", Name: "Indoor Temp Sensor Fault", Type: TypeBoolean, ReadWrite: ReadOnly},
		&Attribute{Key: "f_e_incoiltemp", Name: "Indoor Coil Temp Sensor Fault", Type: TypeBoolean, ReadWrite: ReadOnly},
		&Attribute{Key: "f_e_filterclean", Name: "Filter Clean Alert", Type: TypeBoolean, ReadWrite: ReadOnly},
	)
}

// WindowACSchema 窗式空调（008）模板，分体机的子集
func WindowACSchema() Schema {
	return schemaAttrs(
		&Attribute{Key: "t_power", Name: "Power", Type: TypeEnum, ReadWrite: ReadWrite, ValueMap: powerValueMap()},
		&Attribute{Key: "t_work_mode", Name: "Work Mode", Type: TypeEnum, ReadWrite: ReadWrite, ValueMap: workModeValueMap()},
		&Attribute{Key: "t_fan_speed", Name: "Fan Speed", Type: TypeEnum, ReadWrite: ReadWrite, ValueMap: fanSpeedValueMap()},
		&Attribute{Key: "t_temp", Name: "Target Temperature", Type: TypeNumber, ReadWrite: ReadWrite, Step: 1},
		&Attribute{Key: "t_temp_type", Name: "Temperature Unit", Type: TypeEnum, ReadWrite: ReadWrite,
			ValueMap: NewValueMap("0", "摄氏 Celsius", "1", "华氏 Fahrenheit")},
		&Attribute{Key: "t_eco", Name: "ECO Mode", Type: TypeBoolean, ReadWrite: ReadWrite},
		&Attribute{Key: "t_sleep", Name: "Sleep Mode", Type: TypeEnum, ReadWrite: ReadWrite,
			ValueMap: NewValueMap("0", "关闭", "1", "睡眠")},
		&Attribute{Key: "f_temp_in", Name: "Indoor Temperature", Type: TypeNumber, ReadWrite: ReadOnly},
		&Attribute{Key: "f_power_display", Name: "Power Display", Type: TypeNumber, ReadWrite: ReadOnly},
		&Attribute{Key: "f_power_consumption", Name: "Power Consumption", Type: TypeNumber, ReadWrite: ReadOnly, Step: 1},
		&Attribute{Key: "f_e_filterclean", Name: "Filter Clean Alert", Type: TypeBoolean, ReadWrite: ReadOnly},
	)
}

// PortableACSchema 移动空调（006/016）模板
func PortableACSchema() Schema {
	return schemaAttrs(
		&Attribute{Key: "t_power", Name: "Power", Type: TypeEnum, ReadWrite: ReadWrite, ValueMap: powerValueMap()},
		&Attribute{Key: "t_work_mode", Name: "Work Mode", Type: TypeEnum, ReadWrite: ReadWrite, ValueMap: workModeValueMap()},
		&Attribute{Key: "t_fan_speed", Name: "Fan Speed", Type: TypeEnum, ReadWrite: ReadWrite,
			ValueMap: NewValueMap("0", "自动", "6", "低", "7", "中", "8", "高")},
		&Attribute{Key: "t_temp", Name: "Target Temperature", Type: TypeNumber, ReadWrite: ReadWrite, Step: 1},
		&Attribute{Key: "t_sleep", Name: "Sleep Mode", Type: TypeEnum, ReadWrite: ReadWrite,
			ValueMap: NewValueMap("0", "关闭", "1", "睡眠")},
		&Attribute{Key: "f_temp_in", Name: "Indoor Temperature", Type: TypeNumber, ReadWrite: ReadOnly},
		&Attribute{Key: "f_humidity", Name: "Indoor Humidity", Type: TypeNumber, ReadWrite: ReadOnly},
		&Attribute{Key: "f_power_display", Name: "Power Display", Type: TypeNumber, ReadWrite: ReadOnly},
		&Attribute{Key: "f_power_consumption", Name: "Power Consumption", Type: TypeNumber, ReadWrite: ReadOnly, Step: 1},
		&Attribute{Key: "f_e_waterfull", Name: "Water Full Alert", Type: TypeBoolean, ReadWrite: ReadOnly},
	)
}
