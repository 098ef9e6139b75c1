package region

// Seoul returns the 25 autonomous districts (gu) of Seoul keyed by legal-dong code.
func Seoul() []Region {
	return []Region{
		{ID: "1168000000", Name: "강남구", Latitude: 37.5172, Longitude: 127.0473},
		{ID: "1171000000", Name: "송파구", Latitude: 37.5145, Longitude: 127.1059},
		{ID: "1165000000", Name: "서초구", Latitude: 37.4837, Longitude: 127.0324},
		{ID: "1174000000", Name: "강동구", Latitude: 37.5301, Longitude: 127.1238},
		{ID: "1156000000", Name: "영등포구", Latitude: 37.5264, Longitude: 126.8962},
		{ID: "1150000000", Name: "강서구", Latitude: 37.5509, Longitude: 126.8495},
		{ID: "1144000000", Name: "마포구", Latitude: 37.5663, Longitude: 126.9019},
		{ID: "1141000000", Name: "서대문구", Latitude: 37.5791, Longitude: 126.9368},
		{ID: "1120000000", Name: "성동구", Latitude: 37.5634, Longitude: 127.0368},
		{ID: "1121500000", Name: "광진구", Latitude: 37.5384, Longitude: 127.0822},
		{ID: "1123000000", Name: "동대문구", Latitude: 37.5744, Longitude: 127.0396},
		{ID: "1126000000", Name: "중랑구", Latitude: 37.6063, Longitude: 127.0925},
		{ID: "1129000000", Name: "성북구", Latitude: 37.5894, Longitude: 127.0167},
		{ID: "1130500000", Name: "강북구", Latitude: 37.6397, Longitude: 127.0256},
		{ID: "1132000000", Name: "도봉구", Latitude: 37.6688, Longitude: 127.0471},
		{ID: "1135000000", Name: "노원구", Latitude: 37.6542, Longitude: 127.0568},
		{ID: "1138000000", Name: "은평구", Latitude: 37.6027, Longitude: 126.9291},
		{ID: "1147000000", Name: "양천구", Latitude: 37.5170, Longitude: 126.8664},
		{ID: "1153000000", Name: "구로구", Latitude: 37.4954, Longitude: 126.8874},
		{ID: "1154500000", Name: "금천구", Latitude: 37.4519, Longitude: 126.8955},
		{ID: "1159000000", Name: "동작구", Latitude: 37.5124, Longitude: 126.9393},
		{ID: "1162000000", Name: "관악구", Latitude: 37.4784, Longitude: 126.9516},
		{ID: "1111000000", Name: "종로구", Latitude: 37.5735, Longitude: 126.9788},
		{ID: "1114000000", Name: "중구", Latitude: 37.5641, Longitude: 126.9979},
		{ID: "1117000000", Name: "용산구", Latitude: 37.5324, Longitude: 126.9905},
	}
}

// SeoulCatalog builds the catalog of Seoul districts.
func SeoulCatalog() *Catalog {
	c, err := NewCatalog(Seoul())
	if err != nil {
		panic("invalid built-in region table: " + err.Error())
	}
	return c
}
