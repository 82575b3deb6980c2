// Package registry file: internal/registry/catalog.go
package registry

import "CDCGateway/internal/core/domain"

// entry 是内置目录中的一行。ID 为空表示该名称被操作引用，
// 但远端 ID 需要通过配置提供。
type entry struct {
	Name        string
	ID          string
	Host        domain.Host
	Description string
}

// catalog 是内置的数据集目录。修改它属于部署期变更。
var catalog = []entry{
	// PLACES
	{"places_county_2024", "swc5-untb", domain.HostData, "PLACES: County-level disease prevalence (2024)"},
	{"places_county_2023", "i46a-9kgh", domain.HostData, "PLACES: County-level disease prevalence (2023)"},
	{"places_place_2024", "eav7-hnsx", domain.HostData, "PLACES: City/town-level disease prevalence (2024)"},
	{"places_tract_2024", "q9s5-f4ms", domain.HostData, "PLACES: Census tract-level disease prevalence (2024)"},
	{"places_zcta_2024", "csmw-bzzp", domain.HostData, "PLACES: ZIP code-level disease prevalence (2024)"},

	// BRFSS
	{"brfss_obesity_national", "tcmp-75zb", domain.HostChronicData, "BRFSS: National obesity prevalence trends"},
	{"brfss_obesity_state", "xtew-z72g", domain.HostChronicData, "BRFSS: State-level obesity prevalence"},
	{"brfss_diabetes", "7yww-23y7", domain.HostChronicData, "BRFSS: Diabetes prevalence data"},
	{"brfss_asthma", "kj5r-3dtm", domain.HostChronicData, "BRFSS: Asthma prevalence data"},
	{"brfss_asthma_prevalence", "xb47-c5mz", domain.HostChronicData, "BRFSS: Current asthma prevalence (2011+)"},
	{"brfss_tobacco_use", "8zak-ewtm", domain.HostChronicData, "BRFSS: Tobacco use prevalence trends (1995-2010)"},
	{"brfss_smart_county", "cpem-dkkm", domain.HostData, "BRFSS SMART: County-level risk factor estimates"},
	{"brfss_health_care_access", "t984-9cdv", domain.HostData, "BRFSS: Health care access (1995-2010)"},

	// Chronic disease indicators
	{"chronic_disease_indicators", "g4ie-h725", domain.HostChronicData, "U.S. Chronic Disease Indicators (CDI)"},

	// Nutrition, physical activity, obesity
	{"nutrition_obesity", "hn4x-zwk7", domain.HostData, "Nutrition, Physical Activity, and Obesity - Behavioral"},
	{"nutrition_policy_environmental", "k8w5-7ju6", domain.HostData, "Nutrition, Physical Activity - Policy/Environmental"},
	{"nutrition_commute_patterns", "8mrp-rmkw", domain.HostData, "Nutrition, Physical Activity - Commuting Patterns"},
	{"youth_nutrition_physical_activity", "vba9-s8jp", domain.HostData, "Youth nutrition, physical activity and obesity"},

	// Disease specific
	{"heart_disease_mortality", "6x7h-usvx", domain.HostData, "Heart Disease Mortality by State"},
	{"diabetes_indicators", "qfvz-agah", domain.HostData, "Diabetes Surveillance System indicators"},
	{"covid_cases", "vbim-akqf", domain.HostData, "COVID-19 Case Surveillance"},
	{"cancer_incidence", "c7dz-iz9w", domain.HostData, "Cancer incidence statistics"},

	// VSRR / NCHS
	{"vsrr_quarterly_mortality", "489q-934x", domain.HostData, "VSRR: Quarterly provisional mortality estimates"},
	{"vsrr_maternal_mortality", "e2d5-ggg7", domain.HostData, "VSRR: Provisional maternal death counts"},
	{"vsrr_infant_mortality", "jqwm-z2g9", domain.HostData, "VSRR: Quarterly provisional infant mortality estimates"},
	{"vsrr_birth_quarterly", "", domain.HostData, "VSRR: Quarterly provisional natality estimates"},
	{"birth_rates_age_group", "yt7u-eiyg", domain.HostData, "NCHS: Birth rates by age group of mother"},
	{"nchs_death_rates_life_expectancy", "w9j2-ggv5", domain.HostData, "NCHS: Death rates and life expectancy at birth (since 1900)"},

	// Tobacco
	{"adult_tobacco_consumption", "rnvb-cpxx", domain.HostData, "Adult tobacco consumption in the U.S. (2000+)"},
	{"sammec_smoking_impact", "", domain.HostChronicData, "SAMMEC: Smoking-attributable mortality, morbidity and economic costs"},
	{"smokefree_air_legislation", "32fd-hyzc", domain.HostChronicData, "STATE System: Smokefree air legislation"},
	{"medicaid_cessation_coverage", "ntaa-dtex", domain.HostChronicData, "STATE System: Medicaid coverage of cessation treatment"},
	{"tobacco_licensure", "eb4y-d4ic", domain.HostChronicData, "STATE System: Tobacco licensure legislation"},
	{"tobacco_tax", "2dwv-vfam", domain.HostChronicData, "STATE System: Tobacco tax legislation"},
	{"ecigarette_legislation", "wan8-w4er", domain.HostChronicData, "STATE System: E-cigarette legislation"},

	// Youth, maternal and child health
	{"yrbss_high_school", "", domain.HostData, "YRBSS: High school youth risk behavior survey"},
	{"breastfeeding_nis", "8hxn-cvik", domain.HostData, "NIS: Breastfeeding rates"},
	{"pramstat_2009", "qwpv-wpc8", domain.HostData, "PRAMStat: Pregnancy risk assessment indicators (2009)"},

	// Vaccination and respiratory
	{"teen_vaccinations", "", domain.HostData, "NIS-Teen: Vaccination coverage among adolescents"},
	{"vaccination_pregnant", "h7pm-wmjc", domain.HostData, "Vaccination coverage among pregnant women"},
	{"vaccination_kindergarten", "ijqb-a7ye", domain.HostData, "Vaccination coverage among kindergartners"},
	{"flu_vaccination", "vh55-3he6", domain.HostData, "Influenza vaccination coverage, all ages"},
	{"respiratory_combined", "", domain.HostData, "Respiratory virus surveillance (COVID-19, RSV, influenza)"},
	{"rsv_hospitalizations", "29hc-w46k", domain.HostData, "RSV-NET: RSV hospitalizations"},
	{"covid_vax_jurisdiction", "unsk-b7fc", domain.HostData, "COVID-19 vaccinations by jurisdiction"},
	{"covid_vax_county", "8xkx-amqh", domain.HostData, "COVID-19 vaccinations by county"},

	// Environment, oral/vision, injury
	{"air_quality_tracking", "", domain.HostData, "Environmental Public Health Tracking: Air quality"},
	{"water_fluoridation", "8235-5d73", domain.HostData, "Community water fluoridation"},
	{"oral_health_indicators", "", domain.HostChronicData, "Oral health indicators"},
	{"vision_health", "", domain.HostChronicData, "Vision and eye health surveillance"},
	{"tbi_surveillance", "b4av-siev", domain.HostData, "Traumatic brain injury surveillance"},
	{"alcohol_impaired_driving_deaths", "haed-k2ka", domain.HostData, "Alcohol-impaired driving deaths"},

	// Infectious disease
	{"pneumococcal_disease", "qvzb-qs6p", domain.HostData, "Active Bacterial Core surveillance: Invasive pneumococcal disease"},
	{"foodborne_outbreaks", "5xkq-dg7x", domain.HostData, "NORS: Foodborne and waterborne disease outbreaks"},

	// Overdose
	{"overdose_provisional_state", "xkb8-kh2a", domain.HostData, "VSRR: Provisional drug overdose death counts by state"},
	{"overdose_county", "", domain.HostData, "Provisional drug overdose deaths by county"},
	{"overdose_by_drug", "", domain.HostData, "Drug overdose deaths by drug type"},
	{"overdose_demographics", "", domain.HostData, "Drug overdose deaths by demographics"},
}
