package classify

// Keyword vocabularies of the built-in cascade. Order of use is fixed
// by the engine's step table; within a list, matching is plain
// case-insensitive substring containment.

var inductorTypeWords = []string{"микродроссель", "дроссель", "индуктивность", "сердечник"}

var resistorTypeWords = []string{"резистор ", " резистор"}

var capacitorTypeWords = []string{"конденсатор ", " конденсатор"}

var fuseWords = []string{"предохранитель", "fuse", "fuzetec"}

var ourDevelopmentWords = []string{
	"амфи.", "амфи ", "мвок", "наша разработ", "собственной разработ",
	"шск-м", "плата контроллера шск", "плата преобразователя уровней",
}

var resistorWords = []string{"резистор", "resistor", "сопротивлен"}

var capacitorWords = []string{"конденсатор", "capacitor"}

var powerDividerWords = []string{"делитель мощности", "делитель  мощности", "power divider"}

var icWords = []string{"микросхем", "интегральная схема"}

var icShortWords = []string{"ic ", " ic", "chip ", " chip"}

var icShortExclusions = []string{
	"оптич", "optical", "photonic", "передающий", "приемный", "electronic",
	"quantic", "ebyte", "nt1", "аттенюатор", "attenuator",
}

var inductorWords = []string{
	"дроссель", "микродроссель", "inductor", "катушка индуктивности",
	"индуктивность", "сердечник", "core",
}

var semiconductorTypeWords = []string{
	"диод ", " диод", "diode", "транзистор", "transistor", "стабилитрон",
	"оптрон", "optocoupler",
}

var connectorTypeWords = []string{
	"разъем", "connector", "вилка ", "розетка ", "socket", "plug", "переход ",
}

var opticsModuleWords = []string{
	"оптический модуль", "optical module", "передающий оптический", "приемный оптический",
	"оптический аттенюатор", "аттенюатор оптический", "optical attenuator",
	"mp2320", "mp2220", "fc/apc", "fc/upc", "соединительный оптический",
	"оптоволокон", "fiber optic", "мвол", "линия многоканальная задержки",
	"коммутатор оптический", "оптический коммутатор", "optical switch",
	"кабель оптический", "оптический кабель", "optical cable",
}

var cableWords = []string{"кабель", "cable", "провод ", "wire ", "патч-корд", "патч корд"}

var powerModuleWords = []string{
	"модуль питания", "power module", "преобразователь питания", "dc/dc", "dc-dc",
}

var selfReferenceComponentWords = []string{
	"резистор", "конденсатор", "микросхема", "разъем", "диод", "индуктор", "дроссель",
	"транзистор", "стабилитрон", "генератор", "вилка", "розетка", "кабель",
}

var adapterWords = []string{"адаптер", "adapter"}

var opticalConnectorWords = []string{"fc/", "sc/", "lc/", "оптическ", "optical", "fiber"}

var rfComponentWords = []string{
	"аттенюатор", "attenuator", "делитель мощности", "делитель  мощности",
	"power divider", "ответвитель направленный", "ограничитель", "линия задержек",
}

var opticalMarkerWords = []string{"оптич", "optical", "fc/apc", "fc/upc", "fiber"}

var rfVendorWords = []string{
	"qualwave", "mini-circuits", "api technologies", "weinschel", "a-info",
	"gigabaudics", "quantic pmi", "quantic", "pmi", "jfw", "umcc",
}

var rfPartMarkerWords = []string{"bw - ", "bw-", " vat - ", "vat-", "zx76", "zx60"}

var matchedLoadWords = []string{
	"нагрузка согласованная", "согласованная нагрузка", "matched load",
}

var ferriteIsolatorWords = []string{
	"вентиль свч", "вентиль вч", "circulator", "isolator", "ферритов",
	"прибор фвк", "прибор фквн", "фвк3-", "фквн3-",
}

var devBoardWords = []string{
	"плата инструментальная", "evaluation board", "dev board", "отладочная плата",
	"плата 117212", "коммутатор", "nt1", "модуль связи",
}

var devBoardVendorWords = []string{
	"qualwave", "api technologies", "weinschel", "hittite", "planet",
	"коммутатор", "ebyte", "chengdu ebyte", "nt1",
}

var opticsUPrefixWords = []string{"оптический", "optical", "передающий", "приемный"}

var attenuatorWords = []string{"аттенюат", "ослабител", "attenuator"}

var rfRefWords = []string{
	"свч", "rf", "линия задержек", "delay line", "усилитель", "делитель",
	"сумматор", "splitter", "combiner", "amplifier",
}

var switchWords = []string{"переключ", "тумблер", "кнопка", "switch", "button", "toggle"}

var microchipWords = []string{"микросхем", "микросхема"}

// Final keyword cascade, checked in fixed order after the prefix rules.

var resistorCatchWords = []string{"резист", "resistor"}

var capacitorCatchWords = []string{
	"конденс", "capacitor", "tantalum", "ceramic", "к10-", "к53-",
}

var inductorCatchWords = []string{
	"дросс", "индукт", "inductor", "ferrite", "феррит", "катушка", "choke", "вентиль",
}

var semiconductorCatchWords = []string{
	"диод", "стабилитрон", "транзистор", "оптрон", "оптопар", "2с630", "2т630",
	"индикатор", "led ", "svetodiod", "indicator", "transistor", "optocoupler",
	"thyristor", "тиристор", "mosfet", "igbt", "triac", "симистор",
	"полевой транзистор", "биполярный транзистор",
}

var icCatchWords = []string{
	"микросхем", " ic", "mcu", "контроллер", "процессор", "оп-амп", "op-amp",
	"opamp", "adc", "dac", "fpga", "asic", "драйвер ", "компаратор", "стабил",
	"регулятор", "transceiver", "sn74", "ti ", "stm32", "lmk", "ad9",
}

var connectorCatchWords = []string{
	"разъем", "разъём", "connector", "header", "socket", "rj45", "rj11", "sma",
	"bnc", "terminal", "клемм", "штырь", "pin header", "fpc", "ffc", "din",
	"dc jack", "barrel", "штекер", "вилка", "розетка", "d-sub", "harting",
}

var devBoardCatchWords = []string{
	"отладоч", " dev board", "evaluation", "eval", "nucleo", "arduino", "raspberry",
	"esp32", "stm32 nucleo", "breakout", "fmc", "carrier", "ultrazed", "microzed",
	"picozed", "zedboard", "zynq", "som ", "system on module", "voyager", "tinypilot",
	"плата инструментальная", "evaluation board", "development board",
	"отладочная плата", "aes-zu",
}

var opticsCatchWords = []string{
	"оптичес", "лазер", "оптопара", "led ", "светодиод", "fiber", "оптоволок",
	"sfp", "qsfp", "transceiver module", "аттенюат", "ослабител", "fc/apc",
	"fc/upc", "sc/apc", "lc/apc", "pigtail", "патч-корд оптич",
}

var rfCatchWords = []string{
	"свч", "вч ", "rf ", "microwave", "mini-circuits", "planar monolithics", "pmi",
	"ghz", "lna", "rf amp", "линия задержек", "delay line", "делитель мощности",
	"сумматор", "splitter", "combiner", "усилител", "polaris", "gigabaudics",
	"etl systems", "vat-", "zx60", "pne-l", "ответвитель", "coupler",
	"фазовращатель", "phase shifter", "детектор", "detector", "ограничитель",
	"limiter", "корректор ачх", "equalizer", "qpd", "power divider",
}

var qfaWords = []string{"аттенюатор qfa", "qfa"}

var cableCatchWords = []string{
	"кабель", "cable", "шлейф", "провод", "wire", "patch cord", "jumper",
}

var powerCatchWords = []string{
	"модуль питания", "power module", "dc-dc", "ac-dc", "buck", "boost",
	"источник питания", "блок питания", "psu", "converter", "электропитания",
	"мдм10", "мдм20", "мдм30", "мдм50", "мдм60", "мдм100", "мдм160", "мдм600",
	"маа20", "маа400", "маа600",
}

var othersCatchWords = []string{
	"rittal", "шкаф", "станция", "полка", "кронштейн", "ролик", "болт", "гайка",
	"шайба", "клавиатура", "моноблок", "кабель", "клеммная", "корпус", "шасси",
	"стеллаж", "стойка", "провод", "розетка", "вентилятор", "генератор",
	"предохранитель", "держател", "зажим", "fuzetec", "реле", "relay", "тумблер",
	"фильтр", "filter", "сетка защитная", "коммутатор", "switch", "переход",
	"adapter", "линия задержки", "delay line", "кварц", "quartz", "вставка плавкая",
}

// Extra catch-all vocabulary enabled by the loose flag.
var looseOthersWords = []string{
	"модуль", "плата", "блок", "устройство", "изделие", "комплект",
	"датчик", "sensor", "панель", "крепеж",
}
